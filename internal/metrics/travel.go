package metrics

import "github.com/san-kum/driftpair/internal/motion"

// Travel is the mean distance covered along its path per entity.
type Travel struct {
	last  []motion.Vec
	total float64
}

func NewTravel() *Travel { return &Travel{} }

func (t *Travel) Name() string { return "travel" }

func (t *Travel) Observe(w *motion.World) {
	es := w.Entities()
	if t.last == nil {
		t.last = make([]motion.Vec, len(es))
		for i, e := range es {
			path := e.Path()
			// the first observation happens after one step
			t.last[i] = path[max(len(path)-2, 0)]
		}
	}
	for i, e := range es {
		t.total += e.Pos().Sub(t.last[i]).Len()
		t.last[i] = e.Pos()
	}
}

func (t *Travel) Value() float64 {
	if len(t.last) == 0 {
		return 0
	}
	return t.total / float64(len(t.last))
}

func (t *Travel) Reset() {
	t.last = nil
	t.total = 0
}
