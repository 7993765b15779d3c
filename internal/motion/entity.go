package motion

import (
	"image/color"

	"github.com/san-kum/driftpair/internal/noise"
)

const noPartner = -1

// Entity is one moving circle. Its path grows by one point per tick and is
// never truncated.
type Entity struct {
	Name         string
	Color        color.NRGBA
	Radius       float64
	Activity     float64
	Coordination Coordination

	seed    int64
	offset  float64
	field   noise.Field
	partner int

	pos  Vec
	path []Vec

	updates      int
	cooperations int
}

func (e *Entity) Pos() Vec { return e.pos }

// Path returns a copy of every recorded position, oldest first.
func (e *Entity) Path() []Vec {
	p := make([]Vec, len(e.path))
	copy(p, e.path)
	return p
}

func (e *Entity) PathLen() int      { return len(e.path) }
func (e *Entity) Seed() int64       { return e.seed }
func (e *Entity) Updates() int      { return e.updates }
func (e *Entity) Cooperations() int { return e.cooperations }

// Partner returns the index of the counterpart entity, or -1 when the
// entity has none.
func (e *Entity) Partner() int { return e.partner }

func (e *Entity) record() {
	e.path = append(e.path, e.pos)
}
