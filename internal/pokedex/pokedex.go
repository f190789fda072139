// Package pokedex holds the data-fetch-and-filter pipeline behind the
// Pokedex page: the record model, the selection set, the type filter, the
// detail hydration loop and the two stateful views built on them
// (Aggregator and FilterPanel).
//
// The views own their state exclusively. The only path between them is the
// FilterPanel change notification, which carries the complete selection:
//
//	panel.OnChange(agg.HandleFilterChanged)
//
// Both views are safe for concurrent use; their Mount methods block until
// the initial fetches resolve and are normally run in their own goroutines.
package pokedex

import (
	"context"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Listing bounds. Records beyond ListingLimit are never fetched.
const (
	ListingLimit  = 500
	ListingOffset = 0
)

// CategoryRef is a named category (an elemental type).
type CategoryRef struct {
	Name string
}

// ListingEntry is a shallow reference returned by the listing endpoint.
type ListingEntry struct {
	URL string
}

// Record is a fully hydrated Pokémon.
type Record struct {
	ID         int
	Name       string
	SpriteURL  string
	Categories []CategoryRef
}

// HasCategory reports whether the record carries the named category.
func (r Record) HasCategory(name string) bool {
	for _, c := range r.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CategoryNames returns the category names in their original order.
func (r Record) CategoryNames() []string {
	names := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		names[i] = c.Name
	}
	return names
}

// Source fetches the raw data the views are built from.
// pokeapi.Client is the production implementation.
type Source interface {
	ListTypes(ctx context.Context) ([]CategoryRef, error)
	ListPokemon(ctx context.Context, limit, offset int) ([]ListingEntry, error)
	GetPokemon(ctx context.Context, url string) (Record, error)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// CardView is the render model of a single detail card.
type CardView struct {
	ID           int
	Label        string
	Name         string
	Title        string
	SpriteURL    string
	ReferenceURL string
}

// referenceBase is the external reference page opened from a card.
const referenceBase = "https://bulbapedia.bulbagarden.net/wiki/"

// NewCardView projects a record onto its card. The reference page is keyed
// by the raw, non-capitalized name.
func NewCardView(r Record) CardView {
	return CardView{
		ID:           r.ID,
		Label:        "#" + strconv.Itoa(r.ID),
		Name:         r.Name,
		Title:        Capitalize(r.Name),
		SpriteURL:    r.SpriteURL,
		ReferenceURL: referenceBase + strings.ReplaceAll(r.Name, " ", "_") + "_(Pokemon)",
	}
}
