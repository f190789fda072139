package hx

import (
	"fmt"
	"net/http"
	"sync"
)

// Registry routes component requests and owns the shared props encoder.
type Registry struct {
	mu         sync.RWMutex
	mux        *http.ServeMux
	encoder    *Encoder
	components map[string]Mountable

	// OnError writes the response for failed component requests. It may
	// be replaced before components are added.
	OnError ErrorHandler
}

// NewRegistry creates a registry whose props are signed and encrypted with
// key. It panics on an empty key.
func NewRegistry(key []byte) *Registry {
	enc, err := NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("hx: failed to create encoder: %v", err))
	}
	return &Registry{
		mux:        http.NewServeMux(),
		encoder:    enc,
		components: make(map[string]Mountable),
		OnError:    defaultErrorHandler,
	}
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsNotFound(err):
		http.Error(w, "Not found", http.StatusNotFound)
	case IsBadRequest(err):
		http.Error(w, "Bad request", http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// Encoder returns the registry's encoder.
func (reg *Registry) Encoder() *Encoder {
	return reg.encoder
}

// Add registers components. It panics on a prefix collision.
func (reg *Registry) Add(components ...Mountable) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, comp := range components {
		prefix := comp.HXPrefix()
		if _, exists := reg.components[prefix]; exists {
			panic(fmt.Sprintf("hx: prefix collision for %q", prefix))
		}
		comp.SetEncoder(reg.encoder)
		comp.SetErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			reg.OnError(w, r, err)
		})
		reg.components[prefix] = comp
		reg.mux.HandleFunc(prefix+"/", comp.HXServeHTTP)
	}
}

// Len returns the number of registered components.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.components)
}

// Handler returns the HTTP handler for component routes. Mount it at
// "/_c/". Mutating requests must carry HX-Request: true.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead && !IsHTMX(r) {
			http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
			return
		}
		reg.mux.ServeHTTP(w, r)
	})
}
