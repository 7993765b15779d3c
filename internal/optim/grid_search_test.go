package optim

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/san-kum/driftpair/internal/config"
	"github.com/san-kum/driftpair/internal/metrics"
	"github.com/san-kum/driftpair/internal/sim"
)

func levelRunner(params map[string]float64) (*sim.Runner, error) {
	cfg := config.DefaultConfig()
	cfg.Seed = 21
	lvl := params["level"]
	if err := cfg.SetLevel(1, &lvl); err != nil {
		return nil, err
	}
	w, err := cfg.World()
	if err != nil {
		return nil, err
	}
	r := sim.New(w)
	r.AddMetric(metrics.NewCooperation())
	return r, nil
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{"level"}, [][]float64{{10, 1, 5}})
	g.Maximize = true

	best, val, err := g.Search(context.Background(), levelRunner, 200, "cooperation")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if best["level"] != 1 {
		t.Errorf("expected level 1 to cooperate most, got %v", best)
	}
	// entity 0 never cooperates, entity 1 always does
	if val != 0.5 {
		t.Errorf("expected cooperation 0.5, got %f", val)
	}
}

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{"level"}, [][]float64{{1, 50}})
	best, _, err := g.Search(context.Background(), levelRunner, 200, "cooperation")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if best["level"] != 50 {
		t.Errorf("expected level 50, got %v", best)
	}
}

func TestGridSearchUnknownMetric(t *testing.T) {
	g := NewGridSearch([]string{"level"}, [][]float64{{1}})
	_, _, err := g.Search(context.Background(), levelRunner, 10, "energy")
	if err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestGridSearchNoCandidates(t *testing.T) {
	g := NewGridSearch([]string{"level"}, [][]float64{{1, 2}})
	failing := func(map[string]float64) (*sim.Runner, error) { return nil, errors.New("nope") }
	_, _, err := g.Search(context.Background(), failing, 10, "cooperation")
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"level"}, [][]float64{{1, 2}})
	_, _, err := g.Search(ctx, levelRunner, 10, "cooperation")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{-5, 5, 5, []float64{-5, -2.5, 0, 2.5, 5}},
		{2, 2, 1, []float64{2}},
		{0, 1, 0, []float64{0}},
	}
	for _, tt := range tests {
		if got := Linspace(tt.lo, tt.hi, tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Linspace(%v, %v, %d) = %v, want %v", tt.lo, tt.hi, tt.n, got, tt.want)
		}
	}
}
