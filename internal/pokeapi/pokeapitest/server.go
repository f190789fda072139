// Package pokeapitest serves a canned Pokémon API for tests.
package pokeapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Pokemon is one detail record served by the fake API.
type Pokemon struct {
	ID     int
	Name   string
	Sprite string
	Types  []string
}

// API describes what the fake server answers. A non-zero status makes the
// matching endpoint fail with it.
type API struct {
	Types   []string
	Pokemon []Pokemon

	TypesStatus   int
	ListingStatus int
	DetailStatus  map[string]int

	// Gate, when set, holds every answer until it is closed.
	Gate chan struct{}
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// BaseURL is the API root to hand to pokeapi.New.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v2"
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// NewServer starts a fake API that is closed with the test.
func NewServer(t testing.TB, api API) *Server {
	t.Helper()
	s := &Server{hits: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()
		if api.Gate != nil {
			select {
			case <-api.Gate:
			case <-r.Context().Done():
				return
			}
		}
		s.serve(w, r, api)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, api API) {
	const root = "/api/v2/"
	path := strings.TrimPrefix(r.URL.Path, root)

	switch {
	case path == "type/":
		if api.TypesStatus != 0 {
			w.WriteHeader(api.TypesStatus)
			return
		}
		results := make([]map[string]string, 0, len(api.Types))
		for i, name := range api.Types {
			results = append(results, map[string]string{"name": name, "url": fmt.Sprintf("%s%stype/%d/", s.URL, root, i+1)})
		}
		writeJSON(w, map[string]any{"count": len(results), "results": results})

	case path == "pokemon":
		if api.ListingStatus != 0 {
			w.WriteHeader(api.ListingStatus)
			return
		}
		results := make([]map[string]string, 0, len(api.Pokemon))
		for _, p := range api.Pokemon {
			results = append(results, map[string]string{"name": p.Name, "url": s.URL + root + "pokemon/" + p.Name + "/"})
		}
		writeJSON(w, map[string]any{"count": len(results), "results": results})

	case strings.HasPrefix(path, "pokemon/"):
		name := strings.Trim(strings.TrimPrefix(path, "pokemon/"), "/")
		if status := api.DetailStatus[name]; status != 0 {
			w.WriteHeader(status)
			return
		}
		for _, p := range api.Pokemon {
			if p.Name == name {
				writeJSON(w, document(p))
				return
			}
		}
		http.NotFound(w, r)

	default:
		http.NotFound(w, r)
	}
}

func document(p Pokemon) map[string]any {
	types := make([]map[string]any, 0, len(p.Types))
	for i, t := range p.Types {
		types = append(types, map[string]any{"slot": i + 1, "type": map[string]string{"name": t}})
	}
	var sprite any
	if p.Sprite != "" {
		sprite = p.Sprite
	}
	return map[string]any{
		"id":      p.ID,
		"name":    p.Name,
		"sprites": map[string]any{"front_default": sprite},
		"types":   types,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
