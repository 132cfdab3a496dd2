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

	"github.com/google/uuid"

	"github.com/san-kum/bubblechart/internal/sim"
)

var ErrNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Data      string             `json:"data"`
	Preset    string             `json:"preset,omitempty"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Alpha     float64            `json:"alpha"`
	Nodes     int                `json:"nodes"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Position is one node of a saved layout.
type Position struct {
	ID     string
	Name   string
	Theme  string
	Tag    string
	X, Y   float64
	Radius float64
}

func PositionsFromNodes(nodes []*sim.Node) []Position {
	out := make([]Position, len(nodes))
	for i, n := range nodes {
		out[i] = Position{
			ID:     n.ID(),
			Name:   n.Name(),
			Theme:  n.Theme(),
			Tag:    n.Tag(),
			X:      n.X(),
			Y:      n.Y(),
			Radius: n.Radius(),
		}
	}
	return out
}

var positionHeader = []string{"id", "name", "theme", "tag", "x", "y", "r"}

// Save writes a layout under a new run id of the form <name>_<uuid8>.
func (s *Store) Save(meta RunMetadata, positions []Position) (string, error) {
	runID := fmt.Sprintf("%s_%s", meta.Name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Nodes = len(positions)

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "positions.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(positionHeader); err != nil {
		return "", err
	}
	for _, p := range positions {
		row := []string{
			p.ID,
			p.Name,
			p.Theme,
			p.Tag,
			strconv.FormatFloat(p.X, 'f', 6, 64),
			strconv.FormatFloat(p.Y, 'f', 6, 64),
			strconv.FormatFloat(p.Radius, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every saved run, newest first. Directories without readable
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadPositions(runID string) ([]Position, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "positions.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Position{}, nil
	}

	positions := make([]Position, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(positionHeader) {
			continue
		}
		p := Position{ID: record[0], Name: record[1], Theme: record[2], Tag: record[3]}
		vals := [3]*float64{&p.X, &p.Y, &p.Radius}
		ok := true
		for i, dst := range vals {
			v, err := strconv.ParseFloat(record[4+i], 64)
			if err != nil {
				ok = false
				break
			}
			*dst = v
		}
		if ok {
			positions = append(positions, p)
		}
	}
	return positions, nil
}
