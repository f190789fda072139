package pokedex

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAggregatorScenarioA(t *testing.T) {
	src := newFakeSource(record(1, "bulbasaur", "grass"), record(4, "charmander", "fire"))
	agg := NewAggregator(src)

	if err := agg.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	agg.HandleFilterChanged([]string{"grass"})

	v := agg.View()
	if len(v.Visible) != 1 {
		t.Fatalf("len(Visible) = %d, want 1", len(v.Visible))
	}
	if v.Visible[0].Name != "bulbasaur" {
		t.Errorf("Visible[0].Name = %q, want %q", v.Visible[0].Name, "bulbasaur")
	}
	if v.Total != 2 {
		t.Errorf("Total = %d, want 2", v.Total)
	}
}

func TestAggregatorScenarioB(t *testing.T) {
	src := newFakeSource(record(1, "bulbasaur", "grass", "poison"))
	agg := NewAggregator(src)
	if err := agg.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	agg.HandleFilterChanged([]string{"grass", "poison"})
	if got := names(agg.View().Visible); !cmp.Equal(got, []string{"bulbasaur"}) {
		t.Errorf("Visible = %v, want [bulbasaur]", got)
	}

	agg.HandleFilterChanged([]string{"grass", "fire"})
	if got := agg.View().Visible; len(got) != 0 {
		t.Errorf("Visible = %v, want none", names(got))
	}
}

func TestAggregatorScenarioC(t *testing.T) {
	src := newFakeSource(record(1, "bulbasaur", "grass"))
	src.listingErr = errors.New("HTTP error 500")
	agg := NewAggregator(src)

	err := agg.Mount(context.Background())
	if err == nil {
		t.Fatal("Mount() error = nil, want listing failure")
	}

	v := agg.View()
	if !strings.Contains(v.Err, "500") {
		t.Errorf("Err = %q, want it to contain 500", v.Err)
	}
	if v.Loading {
		t.Error("Loading = true after failure")
	}
	if len(v.Visible) != 0 || v.Total != 0 {
		t.Errorf("Visible = %d, Total = %d, want empty collections", len(v.Visible), v.Total)
	}
	if src.callCount() != 0 {
		t.Errorf("detail fetches = %d, want 0", src.callCount())
	}
}

func TestAggregatorDetailFailureAbortsAndDiscards(t *testing.T) {
	src := newFakeSource(
		record(1, "bulbasaur", "grass"),
		record(2, "ivysaur", "grass"),
		record(3, "venusaur", "grass"),
	)
	src.detailErr[src.entries[1].URL] = errors.New("HTTP error 503")
	agg := NewAggregator(src)

	if err := agg.Mount(context.Background()); err == nil {
		t.Fatal("Mount() error = nil, want detail failure")
	}

	v := agg.View()
	if v.Err != "HTTP error 503" {
		t.Errorf("Err = %q, want %q", v.Err, "HTTP error 503")
	}
	if len(v.Visible) != 0 || v.Total != 0 {
		t.Errorf("partial records kept: Visible = %v, Total = %d", names(v.Visible), v.Total)
	}
	if got := src.callCount(); got != 2 {
		t.Errorf("detail fetches = %d, want 2 (pipeline must stop at the failure)", got)
	}
}

func TestAggregatorSequentialOrderAndConcurrency(t *testing.T) {
	src := newFakeSource(sampleRecords()...)
	agg := NewAggregator(src)

	if err := agg.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if src.maxInFlight != 1 {
		t.Errorf("max concurrent detail fetches = %d, want 1", src.maxInFlight)
	}
	want := names(sampleRecords())
	if diff := cmp.Diff(want, names(agg.View().Visible)); diff != "" {
		t.Errorf("Visible order mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatorPooledPreservesOrder(t *testing.T) {
	src := newFakeSource(sampleRecords()...)
	agg := NewAggregator(src, WithWorkers(4))

	var (
		mu     sync.Mutex
		totals []int
	)
	agg.Watch(func(v AggregatorView) {
		mu.Lock()
		totals = append(totals, v.Total)
		mu.Unlock()
	})

	if err := agg.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	want := names(sampleRecords())
	if diff := cmp.Diff(want, names(agg.View().Visible)); diff != "" {
		t.Errorf("Visible order mismatch (-want +got):\n%s", diff)
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(totals); i++ {
		if totals[i] < totals[i-1] {
			t.Fatalf("Total shrank during hydration: %v", totals)
		}
	}
}

func TestAggregatorPooledFailure(t *testing.T) {
	src := newFakeSource(sampleRecords()...)
	src.detailErr[src.entries[2].URL] = errors.New("HTTP error 500")
	agg := NewAggregator(src, WithWorkers(3))

	if err := agg.Mount(context.Background()); err == nil {
		t.Fatal("Mount() error = nil, want failure")
	}
	v := agg.View()
	if v.Loading || v.Err == "" || v.Total != 0 {
		t.Errorf("View() = %+v, want error state with no records", v)
	}
}

func TestAggregatorLoadingAndErrorExclusive(t *testing.T) {
	src := newFakeSource(record(1, "bulbasaur", "grass"), record(4, "charmander", "fire"))
	src.detailErr[src.entries[1].URL] = errors.New("HTTP error 500")
	agg := NewAggregator(src)

	if v := agg.View(); !v.Loading {
		t.Error("Loading = false before mount resolves")
	}

	var (
		mu          sync.Mutex
		transitions int
		last        = true
	)
	agg.Watch(func(v AggregatorView) {
		if v.Loading && v.Err != "" {
			t.Errorf("view is loading and errored at once: %+v", v)
		}
		mu.Lock()
		if last && !v.Loading {
			transitions++
		}
		last = v.Loading
		mu.Unlock()
	})

	_ = agg.Mount(context.Background())

	mu.Lock()
	defer mu.Unlock()
	if transitions != 1 {
		t.Errorf("loading cleared %d times, want 1", transitions)
	}
}

func TestAggregatorFilterDuringLoading(t *testing.T) {
	src := newFakeSource(record(1, "bulbasaur", "grass"), record(4, "charmander", "fire"))
	src.block = make(chan struct{})
	agg := NewAggregator(src)

	done := make(chan error, 1)
	go func() { done <- agg.Mount(context.Background()) }()

	agg.HandleFilterChanged([]string{"fire"})
	close(src.block)
	if err := <-done; err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	v := agg.View()
	if got := names(v.Visible); !cmp.Equal(got, []string{"charmander"}) {
		t.Errorf("Visible = %v, want [charmander]", got)
	}
	if v.Total != 2 {
		t.Errorf("Total = %d, want 2", v.Total)
	}
}

func TestAggregatorMountOnce(t *testing.T) {
	agg := NewAggregator(newFakeSource())
	if err := agg.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if err := agg.Mount(context.Background()); !errors.Is(err, ErrAlreadyMounted) {
		t.Errorf("second Mount() error = %v, want ErrAlreadyMounted", err)
	}
}

func TestAggregatorCancelledMount(t *testing.T) {
	src := newFakeSource(record(1, "bulbasaur", "grass"))
	src.block = make(chan struct{})
	agg := NewAggregator(src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := agg.Mount(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Mount() error = %v, want context.Canceled", err)
	}
	if v := agg.View(); v.Loading {
		t.Error("Loading = true after cancelled mount")
	}
}

func TestAggregatorEmptySelectionRestoresAll(t *testing.T) {
	src := newFakeSource(sampleRecords()...)
	agg := NewAggregator(src)
	if err := agg.Mount(context.Background()); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	agg.HandleFilterChanged([]string{"fire"})
	agg.HandleFilterChanged(nil)

	if diff := cmp.Diff(names(sampleRecords()), names(agg.View().Visible)); diff != "" {
		t.Errorf("Visible mismatch (-want +got):\n%s", diff)
	}
}
