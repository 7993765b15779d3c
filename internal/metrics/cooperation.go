package metrics

import "github.com/san-kum/driftpair/internal/motion"

// Cooperation is the fraction of entity updates that took the
// cooperative path.
type Cooperation struct {
	cooperations int
	updates      int
}

func NewCooperation() *Cooperation { return &Cooperation{} }

func (c *Cooperation) Name() string { return "cooperation" }

func (c *Cooperation) Observe(w *motion.World) {
	c.cooperations, c.updates = 0, 0
	for _, e := range w.Entities() {
		c.cooperations += e.Cooperations()
		c.updates += e.Updates()
	}
}

func (c *Cooperation) Value() float64 {
	if c.updates == 0 {
		return 0
	}
	return float64(c.cooperations) / float64(c.updates)
}

func (c *Cooperation) Reset() {
	c.cooperations = 0
	c.updates = 0
}
