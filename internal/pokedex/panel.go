package pokedex

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Phase is the FilterPanel lifecycle state. A panel starts Loading and moves
// to Ready or Error once; there is no way back.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PanelView is a snapshot of the FilterPanel state.
type PanelView struct {
	Phase      Phase
	Err        string
	Categories []CategoryRef
	Selected   []string
}

// IsSelected reports whether the named category is checked.
func (v PanelView) IsSelected(name string) bool {
	for _, n := range v.Selected {
		if n == name {
			return true
		}
	}
	return false
}

// FilterPanel fetches the category catalog and tracks which categories are
// checked. Every change is reported to the OnChange listeners with the
// complete selection.
type FilterPanel struct {
	src Source
	log *zap.Logger

	// emitMu orders selection changes with their notifications.
	emitMu sync.Mutex

	mu         sync.RWMutex
	mounted    bool
	phase      Phase
	err        string
	categories []CategoryRef
	selection  SelectionSet
	listeners  []func(selected []string)
}

// NewFilterPanel creates a panel in the Loading phase.
func NewFilterPanel(src Source, opts ...Option) *FilterPanel {
	o := buildOptions(opts)
	return &FilterPanel{src: src, log: o.log}
}

// OnChange registers a listener for selection changes. Listeners run
// synchronously on the goroutine that changed the selection.
func (p *FilterPanel) OnChange(fn func(selected []string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Mount fetches the category catalog once. A failure is terminal for the
// panel and is also returned.
func (p *FilterPanel) Mount(ctx context.Context) error {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return ErrAlreadyMounted
	}
	p.mounted = true
	p.mu.Unlock()

	cats, err := p.src.ListTypes(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.phase = PhaseError
		p.err = err.Error()
		p.log.Warn("type catalog fetch failed", zap.Error(err))
		return err
	}
	p.categories = cats
	p.phase = PhaseReady
	p.log.Info("type catalog fetched", zap.Int("categories", len(cats)))
	return nil
}

// Toggle checks or unchecks a category and notifies listeners with the
// resulting selection, which is also returned.
func (p *FilterPanel) Toggle(name string, checked bool) ([]string, error) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if p.phase != PhaseReady {
		p.mu.Unlock()
		return nil, ErrNotReady
	}
	if !p.knownLocked(name) {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
	}
	p.selection.Toggle(name, checked)
	return p.emitUnlock()
}

// Clear unchecks every category and notifies listeners.
func (p *FilterPanel) Clear() ([]string, error) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	if p.phase != PhaseReady {
		p.mu.Unlock()
		return nil, ErrNotReady
	}
	p.selection = SelectionSet{}
	return p.emitUnlock()
}

// emitUnlock releases the lock held by the caller, then delivers the
// selection to every listener.
func (p *FilterPanel) emitUnlock() ([]string, error) {
	selected := p.selection.Names()
	listeners := make([]func([]string), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		cp := make([]string, len(selected))
		copy(cp, selected)
		fn(cp)
	}
	return selected, nil
}

func (p *FilterPanel) knownLocked(name string) bool {
	for _, c := range p.categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// View returns a snapshot of the current state.
func (p *FilterPanel) View() PanelView {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v := PanelView{
		Phase:    p.phase,
		Err:      p.err,
		Selected: p.selection.Names(),
	}
	v.Categories = make([]CategoryRef, len(p.categories))
	copy(v.Categories, p.categories)
	return v
}
