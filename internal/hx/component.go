package hx

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/a-h/templ"
)

// Handler handles one named action. The request is available for form
// values; the response is written by the runtime from the returned Result.
type Handler[P any] func(ctx context.Context, props P, r *http.Request) Result[P]

type actionDef[P any] struct {
	name    string
	method  string
	handler Handler[P]
}

// Component is the base type embedded by components. P is the props type,
// which must implement Encodable and *P Decodable.
//
// Each component receives a URL prefix derived from its name and the
// source location of New, so two instances with the same name still get
// distinct routes.
type Component[P any] struct {
	name      string
	prefix    string
	sensitive bool
	actions   map[string]*actionDef[P]
	encoder   *Encoder
	lifecycle Lifecycle[P]
	onError   ErrorHandler
}

// New creates a component with the given name. Props are signed by default.
func New[P any](name string) *Component[P] {
	return &Component[P]{
		name:    name,
		prefix:  "/_c/" + name + "-" + componentHash(name, 1),
		actions: make(map[string]*actionDef[P]),
	}
}

// Bind attaches the concrete component's Hydrate and Render. Call it from
// the constructor with the value that embeds this Component.
func (c *Component[P]) Bind(l Lifecycle[P]) {
	c.lifecycle = l
}

// Sensitive switches props from signed to encrypted.
func (c *Component[P]) Sensitive() *Component[P] {
	c.sensitive = true
	return c
}

// Name returns the component's name.
func (c *Component[P]) Name() string {
	return c.name
}

// HXPrefix returns the component's URL prefix.
func (c *Component[P]) HXPrefix() string {
	return c.prefix
}

// IsSensitive returns whether the component uses encrypted props.
func (c *Component[P]) IsSensitive() bool {
	return c.sensitive
}

// SetEncoder sets the props encoder. Called by the registry.
func (c *Component[P]) SetEncoder(enc *Encoder) {
	c.encoder = enc
}

// Encoder returns the props encoder.
func (c *Component[P]) Encoder() *Encoder {
	return c.encoder
}

// SetErrorHandler sets the handler for failed requests. Called by the
// registry.
func (c *Component[P]) SetErrorHandler(fn ErrorHandler) {
	c.onError = fn
}

// Action registers a named action handler. Actions are POST unless
// overridden:
//
//	c.Action("grid", c.handleGrid).Method(http.MethodGet)
func (c *Component[P]) Action(name string, handler Handler[P]) *ActionBuilder {
	def := &actionDef[P]{name: name, method: http.MethodPost, handler: handler}
	c.actions[name] = def
	return &ActionBuilder{method: &def.method}
}

// Refresh returns an action that re-renders the component with props.
func (c *Component[P]) Refresh(props P) *Action {
	return c.newAction("", http.MethodGet, props)
}

// Call returns an action for the named handler. It panics if no such
// action is registered, which surfaces template typos on first render.
func (c *Component[P]) Call(name string, props P) *Action {
	def, ok := c.actions[name]
	if !ok {
		panic(fmt.Sprintf("hx: %s has no action %q", c.name, name))
	}
	return c.newAction(name, def.method, props)
}

// Defer renders placeholder now and replaces it with the component once
// the page has loaded.
func (c *Component[P]) Defer(props P, placeholder templ.Component) templ.Component {
	return deferred(c.Refresh(props).Trigger("load"), placeholder)
}

func (c *Component[P]) newAction(name, method string, props P) *Action {
	path := c.prefix + "/" + name
	a := &Action{URL: path, Method: method, Swap: SwapOuter}
	if c.encoder == nil {
		return a
	}
	encoded, err := c.encoder.Encode(props, c.sensitive)
	if err != nil {
		a.err = err
		return a
	}
	a.encoded = encoded
	if method == http.MethodGet {
		a.URL = path + "?p=" + encoded
	}
	return a
}

// HXServeHTTP decodes props, hydrates them and dispatches the request to
// the render or the named action.
func (c *Component[P]) HXServeHTTP(w http.ResponseWriter, r *http.Request) {
	if c.lifecycle == nil {
		c.fail(w, r, ErrNotBound)
		return
	}

	var props P
	if encoded := r.FormValue("p"); encoded != "" {
		if c.encoder == nil {
			c.fail(w, r, fmt.Errorf("hx: %s has no encoder", c.name))
			return
		}
		if err := c.encoder.Decode(encoded, c.sensitive, &props); err != nil {
			c.fail(w, r, WrapDecodeError(err))
			return
		}
	}

	if err := c.lifecycle.Hydrate(r.Context(), &props); err != nil {
		c.fail(w, r, fmt.Errorf("%w: %w", ErrHydrationFailed, err))
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, c.prefix), "/")
	if name == "" {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		c.handleResult(w, r, OK(props))
		return
	}

	def, ok := c.actions[name]
	if !ok {
		c.fail(w, r, fmt.Errorf("%w: action %q", ErrNotFound, name))
		return
	}
	if r.Method != def.method {
		w.Header().Set("Allow", def.method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	c.handleResult(w, r, def.handler(r.Context(), props, r))
}

func (c *Component[P]) handleResult(w http.ResponseWriter, r *http.Request, result Result[P]) {
	if err := result.GetErr(); err != nil {
		c.fail(w, r, err)
		return
	}
	for k, v := range result.GetHeaders() {
		w.Header().Set(k, v)
	}
	if redirect := result.GetRedirect(); redirect != "" {
		w.Header().Set("HX-Redirect", redirect)
		return
	}
	if trigger := BuildTriggerHeader(result.GetTrigger(), result.GetTriggerData()); trigger != "" {
		w.Header().Set("HX-Trigger", trigger)
	}
	if result.ShouldSkip() {
		return
	}

	var buf bytes.Buffer
	if err := c.lifecycle.Render(r.Context(), result.GetProps()).Render(r.Context(), &buf); err != nil {
		c.fail(w, r, err)
		return
	}
	buf.WriteString(RenderFlashesOOB(result.GetFlashes()))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status := result.GetStatus(); status != 0 {
		w.WriteHeader(status)
	}
	_, _ = buf.WriteTo(w)
}

func (c *Component[P]) fail(w http.ResponseWriter, r *http.Request, err error) {
	if c.onError != nil {
		c.onError(w, r, err)
		return
	}
	defaultErrorHandler(w, r, err)
}

// componentHash hashes the component name with the file:line of the caller
// skip frames above it.
func componentHash(name string, skip int) string {
	input := name
	if _, file, line, ok := runtime.Caller(skip + 1); ok {
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4])
}

func deferred(a *Action, placeholder templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<div"); err != nil {
			return err
		}
		if err := RenderAttrs(w, a.Attrs()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, ">"); err != nil {
			return err
		}
		if placeholder != nil {
			if err := placeholder.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</div>")
		return err
	})
}
