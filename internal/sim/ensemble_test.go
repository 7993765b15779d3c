package sim

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"github.com/san-kum/driftpair/internal/motion"
)

func buildPair(seed int64) (*Runner, error) {
	p := motion.DefaultParams()
	p.Seed = seed
	w, err := motion.NewWorld(p, []motion.EntitySpec{
		{Name: "a", Color: color.NRGBA{A: 255}, Radius: 40, Activity: 3, Coordination: motion.Level(2)},
		{Name: "b", Color: color.NRGBA{A: 255}, Radius: 40, Activity: 3, Coordination: motion.None()},
	})
	if err != nil {
		return nil, err
	}
	r := New(w)
	r.AddMetric(&countMetric{})
	return r, nil
}

func TestEnsembleMatchesSequentialRuns(t *testing.T) {
	seeds := []int64{11, 12, 13, 14}
	var calls []int
	e := NewEnsemble(buildPair, seeds)
	e.OnDone = func(done, total int) {
		if total != len(seeds) {
			t.Errorf("expected total %d, got %d", len(seeds), total)
		}
		calls = append(calls, done)
	}

	results, err := e.Run(context.Background(), 30)
	if err != nil {
		t.Fatalf("ensemble: %v", err)
	}
	if len(calls) != len(seeds) || calls[len(calls)-1] != len(seeds) {
		t.Errorf("unexpected progress calls %v", calls)
	}

	for i, seed := range seeds {
		r, _ := buildPair(seed)
		want, err := r.Run(context.Background(), 30)
		if err != nil {
			t.Fatal(err)
		}
		got := results[i]
		if got.Seed != seed {
			t.Errorf("result %d: expected seed %d, got %d", i, seed, got.Seed)
		}
		for j := range want.Tracks {
			if got.Tracks[j].Pos != want.Tracks[j].Pos {
				t.Errorf("seed %d track %d: concurrent %v, sequential %v", seed, j, got.Tracks[j].Pos, want.Tracks[j].Pos)
			}
		}
		if got.Metrics["count"] != 30 {
			t.Errorf("seed %d: metric shared between members, count %v", seed, got.Metrics["count"])
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	boom := errors.New("boom")
	build := func(seed int64) (*Runner, error) {
		if seed == 2 {
			return nil, boom
		}
		return buildPair(seed)
	}
	_, err := NewEnsemble(build, []int64{1, 2, 3}).Run(context.Background(), 5)
	if !errors.Is(err, boom) {
		t.Fatalf("expected build error, got %v", err)
	}
}

func TestEnsembleInvalidTicks(t *testing.T) {
	_, err := NewEnsemble(buildPair, []int64{1}).Run(context.Background(), 0)
	if !errors.Is(err, ErrInvalidTicks) {
		t.Fatalf("expected ErrInvalidTicks, got %v", err)
	}
}
