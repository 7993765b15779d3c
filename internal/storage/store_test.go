package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/driftpair/internal/config"
	"github.com/san-kum/driftpair/internal/sim"
)

func runPreset(t *testing.T, preset string, ticks int) (RunMetadata, *sim.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 42
	if err := cfg.Apply(preset); err != nil {
		t.Fatalf("apply: %v", err)
	}
	w, err := cfg.World()
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	result, err := sim.New(w).Run(context.Background(), ticks)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	result.Metrics["separation"] = 12.5
	return Describe(preset, w), result
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta, result := runPreset(t, "unrequited", 20)
	runID, err := st.Save(meta, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Preset != "unrequited" || loaded.Seed != 42 || loaded.Ticks != 20 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Metrics["separation"] != 12.5 {
		t.Errorf("expected separation 12.5, got %f", loaded.Metrics["separation"])
	}
	if len(loaded.Entities) != 2 || loaded.Entities[0].Coordination != "2" || loaded.Entities[1].Coordination != "-5" {
		t.Errorf("unexpected entities %+v", loaded.Entities)
	}

	tracks, seps, err := st.LoadTracks(runID)
	if err != nil {
		t.Fatalf("load tracks failed: %v", err)
	}
	if len(tracks) != 2 || len(seps) != 21 {
		t.Fatalf("expected 2 tracks and 21 separations, got %d and %d", len(tracks), len(seps))
	}
	for i, tr := range tracks {
		orig := result.Tracks[i]
		if len(tr.Path) != len(orig.Path) {
			t.Fatalf("%s: expected %d points, got %d", tr.Name, len(orig.Path), len(tr.Path))
		}
		last := tr.Path[len(tr.Path)-1]
		if math.Abs(last.X-orig.Pos.X) > 1e-5 || math.Abs(last.Y-orig.Pos.Y) > 1e-5 {
			t.Errorf("%s: last point %v, want %v", tr.Name, last, orig.Pos)
		}
		if tr.Pos != last || tr.Color != orig.Color || tr.Radius != orig.Radius {
			t.Errorf("%s: style or position not restored", tr.Name)
		}
	}
}

func TestStoreSavePreSteppedWorld(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Seed = 7
	w, err := cfg.World()
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	for i := 0; i < 15; i++ {
		w.Step()
	}
	result, err := sim.New(w).Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	runID, err := st.Save(Describe("", w), result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	tracks, seps, err := st.LoadTracks(runID)
	if err != nil {
		t.Fatalf("load tracks failed: %v", err)
	}
	if len(seps) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(seps))
	}
	for i, tr := range tracks {
		if len(tr.Path) != 11 {
			t.Fatalf("%s: expected 11 points, got %d", tr.Name, len(tr.Path))
		}
		want := result.Tracks[i].Pos
		if math.Abs(tr.Pos.X-want.X) > 1e-5 || math.Abs(tr.Pos.Y-want.Y) > 1e-5 {
			t.Errorf("%s: last saved point %v, want final position %v", tr.Name, tr.Pos, want)
		}
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, p := range []string{"attraction", "avoidance"} {
		meta, result := runPreset(t, p, 5)
		if _, err := st.Save(meta, result); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Preset != "attraction" {
		t.Errorf("expected oldest run first, got %s", runs[0].Preset)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	meta, result := runPreset(t, "indifferent", 3)
	runID, err := st.Save(meta, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "paths.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("ghost"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, _, err := st.LoadTracks("ghost"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	meta, result := runPreset(t, "welcoming", 4)
	runID, err := st.Save(meta, result)
	if err != nil {
		t.Fatal(err)
	}
	loaded, _ := st.Load(runID)
	tracks, seps, _ := st.LoadTracks(runID)

	var buf bytes.Buffer
	if err := ExportJSON(&buf, loaded, tracks, seps); err != nil {
		t.Fatalf("export: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Run.ID != runID || len(data.Tracks) != 2 || len(data.Tracks[0].Path) != 5 {
		t.Errorf("unexpected export %+v", data.Run)
	}
	if data.Tracks[1].Color != loaded.Entities[1].Color {
		t.Errorf("expected color %s, got %s", loaded.Entities[1].Color, data.Tracks[1].Color)
	}
}
