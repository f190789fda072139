// Package hxecho mounts hx components on an Echo instance or group.
//
//	e := echo.New()
//	reg := hxecho.Mount(e, hxecho.WithKey(key))
//	reg.Add(pokedex, filterPanel)
package hxecho

import (
	"crypto/rand"
	"fmt"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/pokedex/internal/hx"
)

// Path is where component routes live. Component prefixes are derived
// from it, so it is not configurable.
const Path = "/_c/"

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	key []byte
}

// WithKey sets the props key. Without it a random key is generated, which
// invalidates every rendered URL on restart.
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// Mount creates a registry and routes Path on e to it.
func Mount(e *echo.Echo, opts ...Option) *hx.Registry {
	reg := newRegistry(opts)
	e.Any(Path+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

// MountGroup creates a registry and routes Path on g to it, so component
// requests share the group's middleware. The group must not add a path
// prefix of its own.
func MountGroup(g *echo.Group, opts ...Option) *hx.Registry {
	reg := newRegistry(opts)
	g.Any(Path+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

func newRegistry(opts []Option) *hx.Registry {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxecho: failed to generate random key: %v", err))
		}
	}
	return hx.NewRegistry(key)
}

// Render writes a templ component to the Echo response.
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response())
}
