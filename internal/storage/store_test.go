package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/bubblechart/internal/sim"
)

func samplePositions() []Position {
	return []Position{
		{ID: "1", Name: "Go", Theme: "infrastructure", X: 300.5, Y: 290.25, Radius: 22},
		{ID: "2", Name: "Rust", Theme: "research", Tag: "systems", X: 330, Y: 310, Radius: 22},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Name:    "bubbles",
		Data:    "data/bubbles.json",
		Seed:    42,
		Steps:   301,
		Alpha:   0.00099,
		Metrics: map[string]float64{"energy": 1.5},
	}

	runID, err := st.Save(meta, samplePositions())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "bubbles_") || len(runID) != len("bubbles_")+8 {
		t.Errorf("unexpected run id %q", runID)
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.ID != runID {
		t.Errorf("expected id %s, got %s", runID, loaded.ID)
	}
	if loaded.Seed != 42 {
		t.Errorf("expected seed 42, got %d", loaded.Seed)
	}
	if loaded.Nodes != 2 {
		t.Errorf("expected 2 nodes, got %d", loaded.Nodes)
	}
	if loaded.Metrics["energy"] != 1.5 {
		t.Errorf("expected energy 1.5, got %f", loaded.Metrics["energy"])
	}

	positions, err := st.LoadPositions(runID)
	if err != nil {
		t.Fatalf("load positions failed: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
	if positions[0] != samplePositions()[0] || positions[1] != samplePositions()[1] {
		t.Errorf("positions changed on round trip: %+v", positions)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Name: "test"}, nil); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if len(runs) == 2 && runs[0].Timestamp.Before(runs[1].Timestamp) {
		t.Error("expected newest run first")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Name: "test"}, samplePositions())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "positions.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	data, err := os.ReadFile(filepath.Join(runDir, "positions.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "id,name,theme,tag,x,y,r\n") {
		t.Errorf("unexpected csv header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadPositions("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPositionsFromNodes(t *testing.T) {
	nodes := []*sim.Node{sim.NewNode("7", "Go", "infrastructure", "lang", 22, 10, 20)}
	got := PositionsFromNodes(nodes)

	want := Position{ID: "7", Name: "Go", Theme: "infrastructure", Tag: "lang", X: 10, Y: 20, Radius: 22}
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := RunMetadata{ID: "bubbles_abcd1234", Name: "bubbles"}
	if err := ExportJSON(&buf, meta, samplePositions()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != meta.ID {
		t.Errorf("expected run id %s, got %s", meta.ID, data.Run.ID)
	}
	if len(data.Positions) != 2 || data.Positions[1].Tag != "systems" {
		t.Errorf("unexpected positions %+v", data.Positions)
	}
}
