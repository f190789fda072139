package pokedex

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Option configures an Aggregator or FilterPanel.
type Option func(*options)

type options struct {
	log     *zap.Logger
	workers int
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop(), workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithWorkers sets the detail fetch concurrency of an Aggregator.
// The default of 1 fetches details sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// AggregatorView is a snapshot of the Aggregator state.
// Loading and a non-empty Err are never set together.
type AggregatorView struct {
	Loading  bool
	Err      string
	Visible  []Record
	Total    int
	Selected []string
}

// Ready reports whether the grid can be shown.
func (v AggregatorView) Ready() bool {
	return !v.Loading && v.Err == ""
}

// Aggregator fetches the listing page, hydrates every entry and keeps the
// visible subset in step with the current category selection.
type Aggregator struct {
	src      Source
	hydrator *Hydrator
	log      *zap.Logger

	mu       sync.RWMutex
	mounted  bool
	loading  bool
	err      string
	all      []Record
	visible  []Record
	selected []string
	watchers []func(AggregatorView)
}

// NewAggregator creates an Aggregator. It reports Loading until Mount
// resolves.
func NewAggregator(src Source, opts ...Option) *Aggregator {
	o := buildOptions(opts)
	return &Aggregator{
		src:      src,
		hydrator: NewHydrator(src, o.workers, o.log),
		log:      o.log,
		loading:  true,
	}
}

// Watch registers fn to receive a fresh view after every state change.
func (a *Aggregator) Watch(fn func(AggregatorView)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.watchers = append(a.watchers, fn)
}

// Mount runs the listing and hydration pipeline once. Any failure aborts
// the rest of the pipeline, discards what was already fetched and is kept
// as the view error; it is also returned.
func (a *Aggregator) Mount(ctx context.Context) error {
	a.mu.Lock()
	if a.mounted {
		a.mu.Unlock()
		return ErrAlreadyMounted
	}
	a.mounted = true
	a.loading = true
	a.err = ""
	a.mu.Unlock()
	a.notify()

	err := a.fetch(ctx)

	a.mu.Lock()
	if err != nil {
		a.err = err.Error()
		a.all = nil
		a.visible = nil
	}
	a.loading = false
	total := len(a.all)
	a.mu.Unlock()
	a.notify()

	if err != nil {
		a.log.Warn("pokedex pipeline failed", zap.Error(err))
		return err
	}
	a.log.Info("pokedex pipeline complete", zap.Int("records", total))
	return nil
}

func (a *Aggregator) fetch(ctx context.Context) error {
	entries, err := a.src.ListPokemon(ctx, ListingLimit, ListingOffset)
	if err != nil {
		return err
	}
	a.log.Info("listing fetched", zap.Int("entries", len(entries)), zap.Int("workers", a.hydrator.Workers()))
	return a.hydrator.Run(ctx, entries, a.appendRecord)
}

// appendRecord grows both collections as records arrive. The visible
// collection only takes records matching the selection, which is empty
// unless the panel reported a change before hydration finished.
func (a *Aggregator) appendRecord(r Record) {
	a.mu.Lock()
	a.all = append(a.all, r)
	if matchesAll(r, a.selected) {
		a.visible = append(a.visible, r)
	}
	a.mu.Unlock()
	a.notify()
}

// HandleFilterChanged replaces the selection with the complete set carried
// by the notification and recomputes the visible records from scratch.
func (a *Aggregator) HandleFilterChanged(selected []string) {
	sel := make([]string, len(selected))
	copy(sel, selected)

	a.mu.Lock()
	a.selected = sel
	a.visible = ApplyFilter(a.all, sel)
	n := len(a.visible)
	a.mu.Unlock()

	a.log.Debug("filter applied", zap.Strings("selected", sel), zap.Int("visible", n))
	a.notify()
}

// View returns a snapshot of the current state.
func (a *Aggregator) View() AggregatorView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.viewLocked()
}

func (a *Aggregator) viewLocked() AggregatorView {
	v := AggregatorView{
		Loading: a.loading,
		Err:     a.err,
		Total:   len(a.all),
	}
	v.Visible = make([]Record, len(a.visible))
	copy(v.Visible, a.visible)
	v.Selected = make([]string, len(a.selected))
	copy(v.Selected, a.selected)
	return v
}

func (a *Aggregator) notify() {
	a.mu.RLock()
	if len(a.watchers) == 0 {
		a.mu.RUnlock()
		return
	}
	watchers := make([]func(AggregatorView), len(a.watchers))
	copy(watchers, a.watchers)
	v := a.viewLocked()
	a.mu.RUnlock()

	for _, fn := range watchers {
		fn(v)
	}
}
