package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/driftpair/internal/config"
	"github.com/san-kum/driftpair/internal/motion"
	"github.com/san-kum/driftpair/internal/render"
	"github.com/san-kum/driftpair/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	pathsFile    = "paths.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type EntityMeta struct {
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	Radius       float64 `json:"radius"`
	Activity     float64 `json:"activity"`
	Coordination string  `json:"coordination"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Ticks     int                `json:"ticks"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Noise     string             `json:"noise"`
	Smooth    float64            `json:"smooth"`
	Entities  []EntityMeta       `json:"entities"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Describe fills the scene fields of a RunMetadata from a world.
func Describe(preset string, w *motion.World) RunMetadata {
	p := w.Params()
	meta := RunMetadata{
		Preset: preset,
		Seed:   w.Seed(),
		Width:  p.Width,
		Height: p.Height,
		Noise:  p.Noise,
		Smooth: p.Smooth,
	}
	for _, e := range w.Entities() {
		meta.Entities = append(meta.Entities, EntityMeta{
			Name:         e.Name,
			Color:        config.FormatColor(e.Color),
			Radius:       e.Radius,
			Activity:     e.Activity,
			Coordination: e.Coordination.String(),
		})
	}
	return meta
}

// Save writes metadata.json and paths.csv into a new run directory and
// returns the run id.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "custom"
	}
	runID := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Ticks = result.Ticks
	meta.Metrics = result.Metrics

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, pathsFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)

	header := []string{"tick"}
	for _, t := range result.Tracks {
		header = append(header, t.Name+"_x", t.Name+"_y")
	}
	header = append(header, "separation")
	if err := w.Write(header); err != nil {
		return "", err
	}

	// A world stepped before the run carries older points; keep the tail.
	offsets := make([]int, len(result.Tracks))
	for k, t := range result.Tracks {
		offsets[k] = len(t.Path) - (result.Ticks + 1)
		if offsets[k] < 0 {
			return "", fmt.Errorf("track %s has %d points, need %d", t.Name, len(t.Path), result.Ticks+1)
		}
	}

	for i := 0; i <= result.Ticks; i++ {
		row := []string{strconv.Itoa(i)}
		for k, t := range result.Tracks {
			p := t.Path[offsets[k]+i]
			row = append(row, formatFloat(p.X), formatFloat(p.Y))
		}
		sep := 0.0
		if i < len(result.Separations) {
			sep = result.Separations[i]
		}
		row = append(row, formatFloat(sep))
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	return runID, w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTracks rebuilds the drawable tracks and the separation series of a run.
func (s *Store) LoadTracks(runID string) ([]render.Track, []float64, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, pathsFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	tracks := make([]render.Track, len(meta.Entities))
	for i, e := range meta.Entities {
		col, err := config.ParseColor(e.Color)
		if err != nil {
			return nil, nil, fmt.Errorf("run %s entity %s: %w", runID, e.Name, err)
		}
		tracks[i] = render.Track{Name: e.Name, Color: col, Radius: e.Radius}
	}

	want := 2 + 2*len(tracks)
	separations := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) != want {
			continue
		}
		vals := make([]float64, len(record)-1)
		ok := true
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}
		for k := range tracks {
			tracks[k].Path = append(tracks[k].Path, motion.Vec{X: vals[2*k], Y: vals[2*k+1]})
		}
		separations = append(separations, vals[len(vals)-1])
	}

	for k := range tracks {
		if n := len(tracks[k].Path); n > 0 {
			tracks[k].Pos = tracks[k].Path[n-1]
		}
	}
	return tracks, separations, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
