package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 3
)

// Field is a coherent noise function of continuous 2D coordinates.
// Sample always returns a value in [0, 1].
type Field interface {
	Sample(x, y float64) float64
}

type Perlin struct {
	p *perlin.Perlin
}

func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Sample remaps the generator's [-1, 1] output onto [0, 1].
func (n *Perlin) Sample(x, y float64) float64 {
	return clamp01((n.p.Noise2D(x, y) + 1) / 2)
}

type Simplex struct {
	s opensimplex.Noise
}

func NewSimplex(seed int64) *Simplex {
	return &Simplex{s: opensimplex.NewNormalized(seed)}
}

func (n *Simplex) Sample(x, y float64) float64 {
	return clamp01(n.s.Eval2(x, y))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
