// Package pokeapi is a read-only client for the public Pokémon REST API.
//
// It serves the three endpoints the Pokedex page needs (type catalog,
// listing page, detail record) and maps their JSON onto pokedex types.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pthm/pokedex/internal/pokedex"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

var _ pokedex.Source = (*Client)(nil)

// Client fetches catalog, listing and detail documents.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client rooted at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url: %q is not absolute", baseURL)
	}

	c := &Client{
		base: u,
		http: http.DefaultClient,
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListTypes returns the category catalog in server order.
func (c *Client) ListTypes(ctx context.Context) ([]pokedex.CategoryRef, error) {
	var page namedResourceList
	if err := c.get(ctx, c.resolve("type/"), &page); err != nil {
		return nil, err
	}
	out := make([]pokedex.CategoryRef, 0, len(page.Results))
	for _, r := range page.Results {
		out = append(out, pokedex.CategoryRef{Name: r.Name})
	}
	return out, nil
}

// ListPokemon returns one listing page.
func (c *Client) ListPokemon(ctx context.Context, limit, offset int) ([]pokedex.ListingEntry, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var page namedResourceList
	if err := c.get(ctx, c.resolve("pokemon?"+q.Encode()), &page); err != nil {
		return nil, err
	}
	out := make([]pokedex.ListingEntry, 0, len(page.Results))
	for _, r := range page.Results {
		out = append(out, pokedex.ListingEntry{URL: r.URL})
	}
	return out, nil
}

// GetPokemon follows a listing entry to its detail record. Relative URLs
// resolve against the base URL.
func (c *Client) GetPokemon(ctx context.Context, detailURL string) (pokedex.Record, error) {
	target := c.resolve(detailURL)

	var doc pokemonDocument
	if err := c.get(ctx, target, &doc); err != nil {
		return pokedex.Record{}, err
	}
	if len(doc.Types) == 0 {
		return pokedex.Record{}, &DecodeError{URL: target, Err: errNoTypes}
	}
	return doc.record(), nil
}

func (c *Client) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return u.String()
	}
	return c.base.ResolveReference(u).String()
}

func (c *Client) get(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	c.log.Debug("pokeapi response", zap.String("url", target), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, URL: target}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &DecodeError{URL: target, Err: err}
	}
	return nil
}
