package sim

import (
	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/render"
)

type Metric interface {
	Name() string
	Observe(w *motion.World)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(w *motion.World)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(w *motion.World)

func (f ObserverFunc) OnTick(w *motion.World) { f(w) }

type Result struct {
	Ticks       int
	Seed        int64
	Tracks      []render.Track
	Separations []float64
	Metrics     map[string]float64
}
