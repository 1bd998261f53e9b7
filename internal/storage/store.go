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
	"strings"
	"time"

	"github.com/san-kum/growthsim/internal/growth"
)

const (
	metadataFile = "metadata.json"
	pathFile     = "path.csv"
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

// RunMetadata describes one saved simulation. SteadyState is nil when the
// parameters have no finite steady state.
type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Params      growth.Params      `json:"params"`
	SteadyState *float64           `json:"steady_state,omitempty"`
	Final       float64            `json:"final"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Run is what the caller hands to Save.
type Run struct {
	Name        string
	Params      growth.Params
	Path        growth.Path
	SteadyState *float64
	Metrics     map[string]float64
}

// runPrefix reduces a run name to characters that are safe in a directory
// name. Anything outside [A-Za-z0-9_-] becomes an underscore.
func runPrefix(name string) string {
	b := []byte(name)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			b[i] = '_'
		}
	}
	if len(b) == 0 {
		return "run"
	}
	return string(b)
}

// runDir resolves a run id to its directory, rejecting ids that would leave
// the base directory.
func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || runID != filepath.Base(runID) || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("invalid run id %q", runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// Save writes the run under a new id derived from its name. The stored
// metadata keeps the name as given.
func (s *Store) Save(run Run) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runPrefix(run.Name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        run.Name,
		Timestamp:   now,
		Params:      run.Params,
		SteadyState: run.SteadyState,
		Final:       run.Path.Final(),
		Metrics:     run.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writePath(filepath.Join(runDir, pathFile), run.Path); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writePath(path string, p growth.Path) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, p); err != nil {
		return err
	}
	return f.Close()
}

// List returns saved runs, oldest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadPath(runID string) (growth.Path, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, pathFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return growth.Path{}, nil
	}

	path := make(growth.Path, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 2 {
			return nil, fmt.Errorf("%s line %d: expected 2 fields, got %d", pathFile, i+2, len(record))
		}
		k, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", pathFile, i+2, err)
		}
		path = append(path, k)
	}

	return path, nil
}
