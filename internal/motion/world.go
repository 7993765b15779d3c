package motion

import (
	"math/rand"
	"time"

	"github.com/san-kum/driftpair/internal/noise"
)

// World owns every entity and the tick counter. It is driven by a single
// caller and is not safe for concurrent use.
type World struct {
	params   Params
	entities []*Entity
	tick     int
	seed     int64
	rng      *rand.Rand
}

// NewWorld places every entity at the canvas center. A zero Params.Seed is
// replaced by a random one; Seed reports the value in use.
func NewWorld(p Params, specs []EntitySpec) (*World, error) {
	if len(specs) == 0 {
		return nil, ErrNoEntities
	}

	seed := p.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	names := make(map[string]bool, len(specs))
	coordinated := false
	for i, s := range specs {
		if s.Radius <= 0 || s.Activity <= 0 {
			return nil, &EntityError{Index: i, Name: s.Name, Wrapped: ErrInvalidEntity}
		}
		if names[s.Name] {
			return nil, &EntityError{Index: i, Name: s.Name, Wrapped: ErrDuplicateName}
		}
		names[s.Name] = true
		if inset := s.Radius + p.StrokeWidth/2; 2*inset > p.Width || 2*inset > p.Height {
			return nil, &EntityError{Index: i, Name: s.Name, Wrapped: ErrCanvasTooSmall}
		}
		if s.Coordination.Enabled() {
			coordinated = true
		}
	}
	if coordinated && len(specs) != 2 {
		return nil, ErrPairing
	}

	center := Vec{p.Width / 2, p.Height / 2}
	w := &World{
		params:   p,
		entities: make([]*Entity, len(specs)),
		seed:     seed,
		rng:      rand.New(rand.NewSource(seed)),
	}
	for i, s := range specs {
		field, err := noise.New(p.Noise, seed+int64(i))
		if err != nil {
			return nil, err
		}
		partner := noPartner
		if len(specs) == 2 {
			partner = 1 - i
		}
		w.entities[i] = &Entity{
			Name:         s.Name,
			Color:        s.Color,
			Radius:       s.Radius,
			Activity:     s.Activity,
			Coordination: s.Coordination,
			seed:         seed + int64(i),
			offset:       float64(i) / 100,
			field:        field,
			partner:      partner,
			pos:          center,
			path:         []Vec{center},
		}
	}
	return w, nil
}

func (w *World) Params() Params      { return w.params }
func (w *World) Seed() int64         { return w.seed }
func (w *World) Tick() int           { return w.tick }
func (w *World) Entities() []*Entity { return w.entities }

// Separation is the distance between the two entities of a pair, or zero.
func (w *World) Separation() float64 {
	if len(w.entities) != 2 {
		return 0
	}
	return w.entities[0].pos.Sub(w.entities[1].pos).Len()
}

// Step advances every entity by one tick in index order: update, clamp to
// the canvas, record.
func (w *World) Step() {
	for _, e := range w.entities {
		var d Vec
		if w.cooperates(e) {
			other := w.entities[e.partner]
			d = CooperativeDelta(w.sample(e), e.Activity, w.params.DriftBias, w.params.InteractionRate,
				e.Coordination.Attracts(), e.pos, other.pos)
			e.cooperations++
		} else {
			d = IndependentDelta(w.sample(e), e.Activity, w.params.DriftBias)
		}
		e.updates++

		e.pos = w.clampToCanvas(e, e.pos.Add(d))
		e.record()
	}
	w.tick++
}

func (w *World) cooperates(e *Entity) bool {
	if !e.Coordination.Enabled() || e.partner == noPartner {
		return false
	}
	return w.rng.Intn(e.Coordination.Period()) == 0
}

func (w *World) sample(e *Entity) Vec {
	t := float64(w.tick)*w.params.Smooth + e.offset
	return Vec{e.field.Sample(t, 0), e.field.Sample(0, t)}
}

func (w *World) clampToCanvas(e *Entity, p Vec) Vec {
	inset := e.Radius + w.params.StrokeWidth/2
	return Vec{
		X: clamp(p.X, inset, w.params.Width-inset),
		Y: clamp(p.Y, inset, w.params.Height-inset),
	}
}
