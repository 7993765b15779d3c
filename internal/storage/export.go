package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/render"
)

type ExportTrack struct {
	Name   string       `json:"name"`
	Color  string       `json:"color"`
	Radius float64      `json:"radius"`
	Path   []motion.Vec `json:"path"`
}

type ExportData struct {
	Run         RunMetadata   `json:"run"`
	Tracks      []ExportTrack `json:"tracks"`
	Separations []float64     `json:"separations"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, tracks []render.Track, separations []float64) error {
	data := ExportData{
		Run:         *meta,
		Tracks:      make([]ExportTrack, len(tracks)),
		Separations: separations,
	}
	for i, t := range tracks {
		color := ""
		if i < len(meta.Entities) {
			color = meta.Entities[i].Color
		}
		data.Tracks[i] = ExportTrack{Name: t.Name, Color: color, Radius: t.Radius, Path: t.Path}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
