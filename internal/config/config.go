package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/noise"
)

const (
	DefaultRadius   = 40.0
	DefaultActivity = 3.0
	MaxEntities     = 2
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

// Default entity colors, given in HSB like the rest of the palette.
var (
	Blue   = colorful.Hsv(190, 0.52, 0.68)
	Yellow = colorful.Hsv(73, 0.25, 0.86)
)

type Config struct {
	Width           float64        `yaml:"width"`
	Height          float64        `yaml:"height"`
	StrokeWidth     float64        `yaml:"stroke_width"`
	Smooth          float64        `yaml:"smooth"`
	DriftBias       float64        `yaml:"drift_bias"`
	InteractionRate float64        `yaml:"interaction_rate"`
	Seed            int64          `yaml:"seed"`
	Noise           string         `yaml:"noise"`
	Preset          string         `yaml:"preset,omitempty"`
	Entities        []EntityConfig `yaml:"entities"`
}

type EntityConfig struct {
	Name     string  `yaml:"name"`
	Color    string  `yaml:"color"`
	Radius   float64 `yaml:"radius"`
	Activity float64 `yaml:"activity"`
	// Coordination is nil for an entity that ignores its counterpart.
	Coordination *float64 `yaml:"coordination"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:           motion.DefaultWidth,
		Height:          motion.DefaultHeight,
		StrokeWidth:     motion.DefaultStrokeWidth,
		Smooth:          motion.DefaultSmooth,
		DriftBias:       motion.DefaultDriftBias,
		InteractionRate: motion.DefaultInteractionRate,
		Noise:           noise.DefaultKind,
		Entities: []EntityConfig{
			{Name: "blue", Color: Blue.Hex(), Radius: DefaultRadius, Activity: DefaultActivity},
			{Name: "yellow", Color: Yellow.Hex(), Radius: DefaultRadius, Activity: DefaultActivity},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Preset != "" {
		if err := cfg.Apply(cfg.Preset); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply sets the coordination levels of the first two entities from the
// named preset and records the preset name.
func (c *Config) Apply(preset string) error {
	p := GetPreset(preset)
	if p == nil {
		return fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, preset, ListPresets())
	}
	if len(c.Entities) != len(p.Levels) {
		return fmt.Errorf("%w: preset %s needs %d entities, have %d", ErrInvalidConfig, preset, len(p.Levels), len(c.Entities))
	}
	for i, lvl := range p.Levels {
		c.Entities[i].Coordination = copyLevel(lvl)
	}
	c.Preset = preset
	return nil
}

// Clone returns a deep copy; entity coordination levels are not shared.
func (c *Config) Clone() *Config {
	out := *c
	out.Entities = make([]EntityConfig, len(c.Entities))
	for i, e := range c.Entities {
		e.Coordination = copyLevel(e.Coordination)
		out.Entities[i] = e
	}
	return &out
}

// SetLevel sets the coordination level of entity i; nil disables it.
func (c *Config) SetLevel(i int, level *float64) error {
	if i < 0 || i >= len(c.Entities) {
		return fmt.Errorf("%w: no entity %d", ErrInvalidConfig, i)
	}
	c.Entities[i].Coordination = copyLevel(level)
	c.Preset = ""
	return nil
}

func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"width":            c.Width,
		"height":           c.Height,
		"stroke_width":     c.StrokeWidth,
		"smooth":           c.Smooth,
		"drift_bias":       c.DriftBias,
		"interaction_rate": c.InteractionRate,
	} {
		if !finite(v) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidConfig, name, v)
		}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: canvas must be positive, got %.0fx%.0f", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Smooth <= 0 {
		return fmt.Errorf("%w: smooth must be positive, got %f", ErrInvalidConfig, c.Smooth)
	}
	if c.StrokeWidth < 0 {
		return fmt.Errorf("%w: stroke_width must not be negative", ErrInvalidConfig)
	}
	if c.DriftBias <= 0 || c.InteractionRate <= 0 {
		return fmt.Errorf("%w: drift_bias and interaction_rate must be positive", ErrInvalidConfig)
	}
	if n := len(c.Entities); n == 0 || n > MaxEntities {
		return fmt.Errorf("%w: need 1 to %d entities, got %d", ErrInvalidConfig, MaxEntities, n)
	}
	for i, e := range c.Entities {
		if _, err := colorful.Hex(e.Color); err != nil {
			return fmt.Errorf("%w: entity %d color %q: %v", ErrInvalidConfig, i, e.Color, err)
		}
		if !finite(e.Radius) || !finite(e.Activity) || (e.Coordination != nil && !finite(*e.Coordination)) {
			return fmt.Errorf("%w: entity %d has a non-finite value", ErrInvalidConfig, i)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func (c *Config) Params() motion.Params {
	return motion.Params{
		Width:           c.Width,
		Height:          c.Height,
		StrokeWidth:     c.StrokeWidth,
		Smooth:          c.Smooth,
		DriftBias:       c.DriftBias,
		InteractionRate: c.InteractionRate,
		Seed:            c.Seed,
		Noise:           c.Noise,
	}
}

func (c *Config) Specs() ([]motion.EntitySpec, error) {
	specs := make([]motion.EntitySpec, len(c.Entities))
	for i, e := range c.Entities {
		col, err := ParseColor(e.Color)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}
		coord := motion.None()
		if e.Coordination != nil {
			coord = motion.Level(*e.Coordination)
		}
		specs[i] = motion.EntitySpec{
			Name:         e.Name,
			Color:        col,
			Radius:       e.Radius,
			Activity:     e.Activity,
			Coordination: coord,
		}
	}
	return specs, nil
}

// World validates the configuration and builds the motion world from it.
func (c *Config) World() (*motion.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	return motion.NewWorld(c.Params(), specs)
}

func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

func FormatColor(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

func copyLevel(l *float64) *float64 {
	if l == nil {
		return nil
	}
	v := *l
	return &v
}
