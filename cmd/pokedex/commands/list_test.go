package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/pthm/pokedex/internal/config"
	"github.com/pthm/pokedex/internal/pokeapi"
	"github.com/pthm/pokedex/internal/pokeapi/pokeapitest"
	"github.com/pthm/pokedex/internal/pokedex"
)

var kanto = pokeapitest.API{
	Types: []string{"grass", "poison", "fire", "flying"},
	Pokemon: []pokeapitest.Pokemon{
		{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}},
		{ID: 4, Name: "charmander", Types: []string{"fire"}},
		{ID: 6, Name: "charizard", Types: []string{"fire", "flying"}},
	},
}

func newSource(t *testing.T, api pokeapitest.API) (*pokeapi.Client, *pokeapitest.Server) {
	t.Helper()
	srv := pokeapitest.NewServer(t, api)
	client, err := pokeapi.New(srv.BaseURL(), pokeapi.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("pokeapi.New() error = %v", err)
	}
	return client, srv
}

func listOpts(types ...string) *listOptions {
	return &listOptions{cfg: config.Config{HydrateWorkers: 1}, types: types}
}

func TestRunList(t *testing.T) {
	logger = zap.NewNop()
	src, _ := newSource(t, kanto)

	tests := []struct {
		name    string
		types   []string
		want    []string
		notWant []string
		summary string
	}{
		{"all", nil, []string{"Bulbasaur", "Charmander", "Charizard"}, nil, "3 of 3 shown"},
		{"single type", []string{"fire"}, []string{"Charmander", "Charizard"}, []string{"Bulbasaur"}, "2 of 3 shown"},
		{"every type must match", []string{"fire", "flying"}, []string{"Charizard"}, []string{"Charmander"}, "1 of 3 shown"},
		{"case insensitive", []string{"Grass"}, []string{"Bulbasaur"}, []string{"Charizard"}, "1 of 3 shown"},
		{"nothing matches", []string{"grass", "fire"}, nil, []string{"Bulbasaur", "Charizard"}, "0 of 3 shown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := runList(t.Context(), src, listOpts(tt.types...), &out); err != nil {
				t.Fatalf("runList() error = %v", err)
			}
			got := out.String()
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("output has %q:\n%s", w, got)
				}
			}
			if !strings.Contains(got, tt.summary) {
				t.Errorf("output missing summary %q:\n%s", tt.summary, got)
			}
		})
	}
}

func TestRunListUnknownType(t *testing.T) {
	logger = zap.NewNop()
	src, _ := newSource(t, kanto)

	err := runList(t.Context(), src, listOpts("shadow"), &bytes.Buffer{})
	if !errors.Is(err, pokedex.ErrUnknownCategory) {
		t.Errorf("error = %v, want ErrUnknownCategory", err)
	}
}

func TestRunListErrors(t *testing.T) {
	logger = zap.NewNop()

	t.Run("listing", func(t *testing.T) {
		api := kanto
		api.ListingStatus = 503
		src, _ := newSource(t, api)

		err := runList(t.Context(), src, listOpts(), &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "503") {
			t.Errorf("error = %v, want listing failure", err)
		}
	})

	// The catalog is only needed when filtering.
	t.Run("types without filter", func(t *testing.T) {
		api := kanto
		api.TypesStatus = 500
		src, _ := newSource(t, api)

		if err := runList(t.Context(), src, listOpts(), &bytes.Buffer{}); err != nil {
			t.Errorf("runList() error = %v", err)
		}
	})

	t.Run("types with filter", func(t *testing.T) {
		api := kanto
		api.TypesStatus = 500
		src, _ := newSource(t, api)

		err := runList(t.Context(), src, listOpts("fire"), &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "load types") {
			t.Errorf("error = %v, want types failure", err)
		}
	})
}

func TestListCommand(t *testing.T) {
	t.Cleanup(func() { logger = zap.NewNop(); verbose = false })
	_, srv := newSource(t, kanto)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"list", "--api", srv.BaseURL(), "--type", "fire", "--type", "flying"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Charizard") || strings.Contains(got, "Charmander") {
		t.Errorf("output =\n%s", got)
	}
}

func TestServeRejectsInvalidFlags(t *testing.T) {
	t.Cleanup(func() { logger = zap.NewNop() })

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"serve", "--workers", "0"})

	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "hydrate workers") {
		t.Errorf("Execute() error = %v, want config error", err)
	}
}
