package config

import "sort"

// Coordination levels used by the presets.
const (
	Approach = 2.0
	Leave    = -5.0
)

type Preset struct {
	Description string
	Levels      []*float64
}

func level(v float64) *float64 { return &v }

var Presets = map[string]Preset{
	"indifferent": {
		Description: "neither cares about the other",
		Levels:      []*float64{nil, nil},
	},
	"attraction": {
		Description: "both drift toward each other",
		Levels:      []*float64{level(Approach), level(Approach)},
	},
	"avoidance": {
		Description: "both keep their distance",
		Levels:      []*float64{level(Leave), level(Leave)},
	},
	"welcoming": {
		Description: "one is indifferent, the other approaches",
		Levels:      []*float64{nil, level(Approach)},
	},
	"letting-go": {
		Description: "one is indifferent, the other leaves",
		Levels:      []*float64{nil, level(Leave)},
	},
	"unrequited": {
		Description: "one approaches, the other leaves",
		Levels:      []*float64{level(Approach), level(Leave)},
	},
}

func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
