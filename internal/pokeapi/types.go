package pokeapi

import (
	"sort"

	"github.com/pthm/pokedex/internal/pokedex"
)

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type namedResourceList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []namedResource `json:"results"`
}

type pokemonDocument struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
	} `json:"sprites"`
	Types []pokemonType `json:"types"`
}

type pokemonType struct {
	Slot int           `json:"slot"`
	Type namedResource `json:"type"`
}

func (d pokemonDocument) record() pokedex.Record {
	types := make([]pokemonType, len(d.Types))
	copy(types, d.Types)
	sort.SliceStable(types, func(i, j int) bool { return types[i].Slot < types[j].Slot })

	r := pokedex.Record{
		ID:         d.ID,
		Name:       d.Name,
		Categories: make([]pokedex.CategoryRef, 0, len(types)),
	}
	if d.Sprites.FrontDefault != nil {
		r.SpriteURL = *d.Sprites.FrontDefault
	}
	for _, t := range types {
		r.Categories = append(r.Categories, pokedex.CategoryRef{Name: t.Type.Name})
	}
	return r
}
