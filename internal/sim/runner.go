package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/render"
)

var ErrInvalidTicks = errors.New("sim: tick count must be positive")

// Runner drives a world without a display, as fast as it can.
type Runner struct {
	world     *motion.World
	metrics   []Metric
	observers []Observer
}

func New(w *motion.World) *Runner {
	return &Runner{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) World() *motion.World   { return r.world }
func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run advances the world ticks times. On cancellation the partial result is
// returned together with the context error.
func (r *Runner) Run(ctx context.Context, ticks int) (*Result, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidTicks, ticks)
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result := &Result{
		Seed:        r.world.Seed(),
		Separations: make([]float64, 0, ticks+1),
		Metrics:     make(map[string]float64),
	}
	result.Separations = append(result.Separations, r.world.Separation())

	var err error
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			err = ctx.Err()
		default:
		}
		if err != nil {
			break
		}

		r.world.Step()
		result.Ticks++
		result.Separations = append(result.Separations, r.world.Separation())

		for _, m := range r.metrics {
			m.Observe(r.world)
		}
		for _, obs := range r.observers {
			obs.OnTick(r.world)
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Tracks = render.TracksOf(r.world)

	return result, err
}
