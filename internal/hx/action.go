package hx

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/a-h/templ"
)

// ActionBuilder configures a registered action.
type ActionBuilder struct {
	method *string
}

// Method overrides the default POST method.
func (ab *ActionBuilder) Method(m string) *ActionBuilder {
	*ab.method = m
	return ab
}

// Action describes one htmx request against a component: where it goes,
// what triggers it and what it replaces. Build it with Component.Refresh
// or Component.Call and spread Attrs into an element.
type Action struct {
	URL    string
	Method string
	Swap   SwapMode

	target  string
	trigger string
	confirm string
	vals    map[string]any
	encoded string
	err     error
}

// Target sets the CSS selector that receives the response.
func (a *Action) Target(selector string) *Action {
	a.target = selector
	return a
}

// SwapMode sets how the response replaces the target.
func (a *Action) SwapMode(mode SwapMode) *Action {
	a.Swap = mode
	return a
}

// Trigger sets a raw hx-trigger value.
func (a *Action) Trigger(trigger string) *Action {
	a.trigger = trigger
	return a
}

// Every polls at the given interval.
func (a *Action) Every(d time.Duration) *Action {
	return a.Trigger(fmt.Sprintf("every %dms", d.Milliseconds()))
}

// OnEvent fires the action when event reaches the body, which is where
// HX-Trigger events are dispatched.
func (a *Action) OnEvent(event string) *Action {
	return a.Trigger(event + " from:body")
}

// Vals adds extra values to the request.
func (a *Action) Vals(vals map[string]any) *Action {
	if a.vals == nil {
		a.vals = make(map[string]any, len(vals))
	}
	maps.Copy(a.vals, vals)
	return a
}

// Confirm asks the user before sending the request.
func (a *Action) Confirm(msg string) *Action {
	a.confirm = msg
	return a
}

// Err reports a props encoding failure. Attrs of a failed action carry
// no request attribute.
func (a *Action) Err() error {
	return a.err
}

// Attrs builds the htmx attributes for the action.
func (a *Action) Attrs() templ.Attributes {
	attrs := templ.Attributes{}
	if a.err != nil {
		return attrs
	}

	method := a.Method
	if method == "" {
		method = http.MethodGet
	}
	vals := make(map[string]any, len(a.vals)+1)
	maps.Copy(vals, a.vals)

	switch method {
	case http.MethodGet:
		attrs["hx-get"] = a.URL
	case http.MethodPost:
		attrs["hx-post"] = a.URL
	case http.MethodPut:
		attrs["hx-put"] = a.URL
	case http.MethodPatch:
		attrs["hx-patch"] = a.URL
	case http.MethodDelete:
		attrs["hx-delete"] = a.URL
	}
	if method != http.MethodGet && a.encoded != "" {
		vals["p"] = a.encoded
	}
	if len(vals) > 0 {
		data, err := json.Marshal(vals)
		if err == nil {
			attrs["hx-vals"] = string(data)
		}
	}

	if a.target != "" {
		attrs["hx-target"] = a.target
	}
	if a.Swap != "" {
		attrs["hx-swap"] = string(a.Swap)
	}
	if a.trigger != "" {
		attrs["hx-trigger"] = a.trigger
	}
	if a.confirm != "" {
		attrs["hx-confirm"] = a.confirm
	}
	return attrs
}
