package pokedex

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Hydrator follows listing entries to their detail records.
//
// With one worker the entries are fetched strictly one after another. With
// more, up to that many fetches run at once but records are still emitted in
// listing order, each as soon as every entry before it has resolved.
type Hydrator struct {
	src     Source
	workers int
	log     *zap.Logger
}

// NewHydrator creates a hydrator. workers below 1 mean sequential.
func NewHydrator(src Source, workers int, log *zap.Logger) *Hydrator {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Hydrator{src: src, workers: workers, log: log}
}

// Workers returns the fetch concurrency.
func (h *Hydrator) Workers() int {
	return h.workers
}

// Run fetches the detail of every entry and hands each record to emit in
// listing order. emit is never called concurrently. The first failure stops
// the remaining fetches and is returned.
func (h *Hydrator) Run(ctx context.Context, entries []ListingEntry, emit func(Record)) error {
	if h.workers == 1 {
		return h.runSequential(ctx, entries, emit)
	}
	return h.runPool(ctx, entries, emit)
}

func (h *Hydrator) runSequential(ctx context.Context, entries []ListingEntry, emit func(Record)) error {
	for i, e := range entries {
		rec, err := h.src.GetPokemon(ctx, e.URL)
		if err != nil {
			h.log.Warn("hydrate failed", zap.Int("index", i), zap.String("url", e.URL), zap.Error(err))
			return err
		}
		h.log.Debug("hydrated", zap.Int("index", i), zap.Int("id", rec.ID), zap.String("name", rec.Name))
		emit(rec)
	}
	return nil
}

func (h *Hydrator) runPool(ctx context.Context, entries []ListingEntry, emit func(Record)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers)

	var (
		mu      sync.Mutex
		results = make([]Record, len(entries))
		done    = make([]bool, len(entries))
		next    int
	)

	for i, e := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, err := h.src.GetPokemon(gctx, e.URL)
			if err != nil {
				h.log.Warn("hydrate failed", zap.Int("index", i), zap.String("url", e.URL), zap.Error(err))
				return err
			}
			h.log.Debug("hydrated", zap.Int("index", i), zap.Int("id", rec.ID), zap.String("name", rec.Name))

			mu.Lock()
			defer mu.Unlock()
			results[i] = rec
			done[i] = true
			for next < len(entries) && done[next] {
				emit(results[next])
				next++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	// Scheduling stops early only when the parent context is done.
	return ctx.Err()
}
