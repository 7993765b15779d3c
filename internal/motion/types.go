package motion

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Len() float64  { return math.Hypot(v.X, v.Y) }

func (v Vec) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// Coordination is an entity's bias toward (level >= 0) or away from
// (level < 0) its counterpart. The zero value is None.
type Coordination struct {
	level   float64
	enabled bool
}

func None() Coordination { return Coordination{} }

func Level(v float64) Coordination { return Coordination{level: v, enabled: true} }

func (c Coordination) Enabled() bool  { return c.enabled }
func (c Coordination) Value() float64 { return c.level }

// Attracts reports whether the entity is pulled toward its counterpart.
func (c Coordination) Attracts() bool { return c.level >= 0 }

// Period is n in "cooperate once every n updates on average". Levels with
// magnitude below one give 1, i.e. always cooperate.
func (c Coordination) Period() int {
	n := int(math.Floor(math.Abs(c.level)))
	if n < 1 {
		return 1
	}
	return n
}

func (c Coordination) String() string {
	if !c.enabled {
		return "none"
	}
	return strconv.FormatFloat(c.level, 'g', -1, 64)
}

// EntitySpec is the static configuration of one entity.
type EntitySpec struct {
	Name         string
	Color        color.NRGBA
	Radius       float64
	Activity     float64
	Coordination Coordination
}

type Params struct {
	Width           float64
	Height          float64
	StrokeWidth     float64
	Smooth          float64
	DriftBias       float64
	InteractionRate float64
	Seed            int64
	Noise           string
}

const (
	DefaultWidth           = 800.0
	DefaultHeight          = 600.0
	DefaultStrokeWidth     = 3.0
	DefaultSmooth          = 0.02
	DefaultDriftBias       = 0.87
	DefaultInteractionRate = 1.3
)

func DefaultParams() Params {
	return Params{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		StrokeWidth:     DefaultStrokeWidth,
		Smooth:          DefaultSmooth,
		DriftBias:       DefaultDriftBias,
		InteractionRate: DefaultInteractionRate,
	}
}
