// Package hx is the server-side component runtime behind the Pokedex page.
//
// A component is a Go type that embeds *Component[P], where P is its props
// type, and implements Hydrate and Render:
//
//	type FilterPanel struct {
//	    *hx.Component[FilterPanelProps]
//	    mounts *mount.Store
//	}
//
//	func NewFilterPanel(mounts *mount.Store) *FilterPanel {
//	    c := &FilterPanel{Component: hx.New[FilterPanelProps]("filterpanel"), mounts: mounts}
//	    c.Bind(c)
//	    c.Action("toggle", c.handleToggle)
//	    return c
//	}
//
// Props travel in the "p" parameter of component URLs, msgpack-encoded and
// signed (or encrypted, see Sensitive). They should hold identifiers only;
// Hydrate rebuilds everything else before any handler or render runs.
//
// # Requests
//
// Every component is served under its own prefix (/_c/<name>-<hash>/).
// GET on the prefix renders the component; other paths dispatch to the
// named action. A handler returns a Result that tells the runtime what to
// do next: render with the (possibly updated) props, emit an event, add
// flash toasts, or stop because the handler wrote the response itself.
//
// # Events
//
// Components never call each other over HTTP. An action emits an event
// through the HX-Trigger header, optionally with data:
//
//	return hx.OK(props).Trigger("filter:changed", map[string]any{"selected": names})
//
// and any element that should react listens for it:
//
//	c.Call("grid", props).OnEvent("filter:changed").Attrs()
//
// # Registration
//
//	reg := hx.NewRegistry(key)
//	reg.Add(pokedex, filterPanel)
//	mux.Handle("/_c/", reg.Handler())
//
// The registry hands each component its encoder and error handler and
// rejects prefix collisions at startup. Mutating requests without the
// HX-Request header are refused.
package hx
