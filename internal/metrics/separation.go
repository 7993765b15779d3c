package metrics

import "github.com/san-kum/driftpair/internal/motion"

// Separation is the mean distance between the two entities over all
// observed ticks.
type Separation struct {
	sum     float64
	samples int
}

func NewSeparation() *Separation { return &Separation{} }

func (s *Separation) Name() string { return "separation" }

func (s *Separation) Observe(w *motion.World) {
	s.sum += w.Separation()
	s.samples++
}

func (s *Separation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.sum / float64(s.samples)
}

func (s *Separation) Reset() {
	s.sum = 0
	s.samples = 0
}
