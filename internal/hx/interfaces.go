package hx

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
)

// Hydrater rebuilds rich data from the identifiers carried in props.
// It runs once per request, before the handler or render.
type Hydrater[P any] interface {
	Hydrate(ctx context.Context, props *P) error
}

// Renderer produces the component markup from hydrated props. Render must
// not have side effects.
type Renderer[P any] interface {
	Render(ctx context.Context, props P) templ.Component
}

// Lifecycle is what a component type binds to its embedded Component.
type Lifecycle[P any] interface {
	Hydrater[P]
	Renderer[P]
}

// HXComponent serves the HTTP routes of one component.
type HXComponent interface {
	HXPrefix() string
	HXServeHTTP(w http.ResponseWriter, r *http.Request)
}

// ErrorHandler writes the response for a failed request.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Mountable is what the Registry needs from a component. *Component[P]
// implements it, so every type embedding one does too.
type Mountable interface {
	HXComponent
	SetEncoder(enc *Encoder)
	SetErrorHandler(fn ErrorHandler)
}
