package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/driftpair/internal/sim"
)

var ErrNoCandidates = errors.New("optim: no grid point produced a result")

// GridSearch tries every combination of parameter values and keeps the one
// with the lowest metric value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Maximize flips the objective.
	Maximize bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search builds a runner for every grid point, runs it for ticks and compares
// metricName. Points whose runner cannot be built are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildRunner func(params map[string]float64) (*sim.Runner, error),
	ticks int,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d params but %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildRunner, ticks, metricName, &best, &bestParams); err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, ErrNoCandidates
	}
	if g.Maximize {
		best = -best
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildRunner func(map[string]float64) (*sim.Runner, error),
	ticks int,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		runner, err := buildRunner(current)
		if err != nil {
			return nil
		}

		result, err := runner.Run(ctx, ticks)
		if err != nil {
			// cancellation aborts the whole search
			if ctx.Err() != nil {
				return err
			}
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("optim: runner has no metric %q", metricName)
		}
		if g.Maximize {
			val = -val
		}
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildRunner, ticks, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
