// Package config loads the Pokedex settings from the environment and lets
// command-line flags override them.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/pflag"
)

// Config holds the settings shared by the serve and list commands.
type Config struct {
	HTTPAddr       string        `env:"POKEDEX_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL     string        `env:"POKEDEX_API_BASE_URL" envDefault:"https://pokeapi.co/api/v2"`
	RequestTimeout time.Duration `env:"POKEDEX_REQUEST_TIMEOUT" envDefault:"10s"`
	HydrateWorkers int           `env:"POKEDEX_HYDRATE_WORKERS" envDefault:"1"`
	PropsKey       string        `env:"POKEDEX_PROPS_KEY"`
	MountTTL       time.Duration `env:"POKEDEX_MOUNT_TTL" envDefault:"30m"`
	Headline       string        `env:"POKEDEX_HEADLINE"`
}

// Load reads the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// BindFlags registers flags that override the loaded values. The current
// values of cfg become the flag defaults.
func (cfg *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "Pokémon API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout for API calls")
	fs.IntVar(&cfg.HydrateWorkers, "workers", cfg.HydrateWorkers, "concurrent detail fetches (1 fetches sequentially)")
	fs.DurationVar(&cfg.MountTTL, "mount-ttl", cfg.MountTTL, "how long an idle page keeps its state")
	fs.StringVar(&cfg.Headline, "headline", cfg.Headline, "headline shown above the grid")
}

// Validate checks the values that have no usable fallback.
func (cfg Config) Validate() error {
	var errs []error
	if cfg.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url is required"))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout))
	}
	if cfg.HydrateWorkers < 1 {
		errs = append(errs, fmt.Errorf("hydrate workers must be at least 1, got %d", cfg.HydrateWorkers))
	}
	if cfg.MountTTL <= 0 {
		errs = append(errs, fmt.Errorf("mount ttl must be positive, got %s", cfg.MountTTL))
	}
	return errors.Join(errs...)
}
