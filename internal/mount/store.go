// Package mount keeps the per-page state behind the Pokedex components.
//
// Every page load opens a Mount: a FilterPanel and an Aggregator wired
// together and started against the shared Source. Component requests find
// their Mount again through the ID carried in their props.
package mount

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pthm/pokedex/internal/pokedex"
)

// ErrNotFound is returned for unknown or evicted mount IDs.
var ErrNotFound = errors.New("mount: not found")

// DefaultTTL is how long an untouched mount is kept.
const DefaultTTL = 30 * time.Minute

// Mount is one page's component state.
type Mount struct {
	ID       string
	Headline string
	Panel    *pokedex.FilterPanel
	Grid     *pokedex.Aggregator

	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	lastSeen time.Time
}

// Done is closed once both components have finished mounting.
func (m *Mount) Done() <-chan struct{} {
	return m.done
}

func (m *Mount) touch(now time.Time) {
	m.mu.Lock()
	m.lastSeen = now
	m.mu.Unlock()
}

func (m *Mount) idleSince() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSeen
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle time after which Sweep evicts a mount.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithWorkers sets the detail fetch concurrency of each Aggregator.
func WithWorkers(n int) Option {
	return func(s *Store) {
		s.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store holds open mounts.
type Store struct {
	src     pokedex.Source
	ttl     time.Duration
	workers int
	log     *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	mounts map[string]*Mount
	wg     sync.WaitGroup
}

// NewStore creates a Store whose mounts read from src.
func NewStore(src pokedex.Source, opts ...Option) *Store {
	s := &Store{
		src:     src,
		ttl:     DefaultTTL,
		workers: 1,
		log:     zap.NewNop(),
		now:     time.Now,
		mounts:  make(map[string]*Mount),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a mount and starts both of its components. The panel's
// selection changes are delivered to the grid. The two fetches run
// independently: one failing does not stop the other.
func (s *Store) Open(headline string) *Mount {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()
	log := s.log.With(zap.String("mount", id))

	m := &Mount{
		ID:       id,
		Headline: headline,
		Panel:    pokedex.NewFilterPanel(s.src, pokedex.WithLogger(log)),
		Grid:     pokedex.NewAggregator(s.src, pokedex.WithLogger(log), pokedex.WithWorkers(s.workers)),
		cancel:   cancel,
		done:     make(chan struct{}),
		lastSeen: s.now(),
	}
	m.Panel.OnChange(m.Grid.HandleFilterChanged)

	s.mu.Lock()
	s.mounts[id] = m
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(m.done)

		var g errgroup.Group
		g.Go(func() error { return m.Panel.Mount(ctx) })
		g.Go(func() error { return m.Grid.Mount(ctx) })
		if err := g.Wait(); err != nil {
			log.Debug("mount finished with error", zap.Error(err))
		}
	}()

	log.Info("mount opened", zap.Int("open", s.Len()))
	return m
}

// Get returns the mount with id and marks it as used.
func (s *Store) Get(id string) (*Mount, error) {
	s.mu.Lock()
	m, ok := s.mounts[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	m.touch(s.now())
	return m, nil
}

// Close removes the mount with id and cancels its in-flight requests.
func (s *Store) Close(id string) error {
	s.mu.Lock()
	m, ok := s.mounts[id]
	delete(s.mounts, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	m.cancel()
	return nil
}

// Sweep closes mounts idle for longer than the TTL and returns how many
// were evicted.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var stale []*Mount
	for id, m := range s.mounts {
		if now.Sub(m.idleSince()) > s.ttl {
			stale = append(stale, m)
			delete(s.mounts, id)
		}
	}
	s.mu.Unlock()

	for _, m := range stale {
		m.cancel()
	}
	if len(stale) > 0 {
		s.log.Info("evicted idle mounts", zap.Int("evicted", len(stale)), zap.Int("open", s.Len()))
	}
	return len(stale)
}

// Run sweeps on an interval of half the TTL until ctx is done, then
// closes every remaining mount and waits for them to stop.
func (s *Store) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Shutdown()
			return nil
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

// Shutdown closes every mount and waits for their fetches to return.
func (s *Store) Shutdown() {
	s.mu.Lock()
	mounts := s.mounts
	s.mounts = make(map[string]*Mount)
	s.mu.Unlock()

	for _, m := range mounts {
		m.cancel()
	}
	s.wg.Wait()
}

// Len returns the number of open mounts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.mounts)
}
