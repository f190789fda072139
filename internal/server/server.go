// Package server serves the Pokedex page and its components over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pthm/pokedex/internal/components"
	"github.com/pthm/pokedex/internal/config"
	"github.com/pthm/pokedex/internal/hx"
	"github.com/pthm/pokedex/internal/hx/hxecho"
	"github.com/pthm/pokedex/internal/mount"
	"github.com/pthm/pokedex/internal/pokeapi"
	"github.com/pthm/pokedex/internal/pokedex"
)

const shutdownTimeout = 5 * time.Second

// Server owns the echo instance, the mount store and the registered
// components.
type Server struct {
	cfg    config.Config
	log    *zap.Logger
	echo   *echo.Echo
	mounts *mount.Store
	set    *components.Set
}

// New builds a server that reads from the API at cfg.APIBaseURL.
func New(cfg config.Config, log *zap.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	client, err := pokeapi.New(cfg.APIBaseURL,
		pokeapi.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		pokeapi.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return NewWithSource(cfg, client, log), nil
}

// NewWithSource builds a server around an existing data source.
func NewWithSource(cfg config.Config, src pokedex.Source, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg: cfg,
		log: log,
		mounts: mount.NewStore(src,
			mount.WithTTL(cfg.MountTTL),
			mount.WithWorkers(cfg.HydrateWorkers),
			mount.WithLogger(log),
		),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(log))

	var opts []hxecho.Option
	if cfg.PropsKey != "" {
		opts = append(opts, hxecho.WithKey([]byte(cfg.PropsKey)))
	} else {
		log.Warn("no props key configured, rendered pages will not survive a restart")
	}
	reg := hxecho.Mount(e, opts...)
	reg.OnError = s.componentError
	s.set = components.Init(reg, s.mounts, log)

	e.GET("/", s.index)
	e.GET("/healthz", s.healthz)

	s.echo = e
	return s
}

// Handler exposes the routes for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Mounts returns the store backing the rendered pages.
func (s *Server) Mounts() *mount.Store {
	return s.mounts
}

// Run serves on cfg.HTTPAddr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", s.cfg.HTTPAddr))
		if err := s.echo.Start(s.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.mounts.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info("server stopped")
		return nil
	})

	return g.Wait()
}

// Close releases every mount without serving.
func (s *Server) Close() {
	s.mounts.Shutdown()
}

func (s *Server) index(c echo.Context) error {
	m := s.mounts.Open(s.cfg.Headline)
	return hxecho.Render(c, components.Page(s.cfg.Headline, s.set.Pokedex.Mounted(m)))
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "mounts": s.mounts.Len()})
}

// componentError replaces the registry default so an evicted mount tells the
// user to reload instead of showing a bare 404.
func (s *Server) componentError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "something went wrong"
	switch {
	case errors.Is(err, mount.ErrNotFound):
		status = http.StatusNotFound
		msg = "this page has expired, reload to start again"
	case hx.IsNotFound(err):
		status = http.StatusNotFound
		msg = "not found"
	case hx.IsBadRequest(err):
		status = http.StatusBadRequest
		msg = "bad request"
	}

	log := s.log.Warn
	if status >= http.StatusInternalServerError {
		log = s.log.Error
	}
	log("component request failed",
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = hx.ErrorComponent(errors.New(msg)).Render(r.Context(), w)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			log.Debug("request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.Bool("htmx", hx.IsHTMX(req)),
			)
			return nil
		}
	}
}
