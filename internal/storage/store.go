// Package storage keeps traced batches on disk, one directory per run.
//
// A run directory holds metadata.json, bundle.json with every trajectory,
// and rays/NNNN.csv with one trajectory per file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/wavetrace/internal/ray"
	"github.com/san-kum/wavetrace/internal/sim"
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

type RunMetadata struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Timestamp  time.Time      `json:"timestamp"`
	EndTime    float64        `json:"end_time"`
	StepSize   float64        `json:"step_size"`
	Refraction string         `json:"refraction"`
	Workers    int            `json:"workers"`
	Rays       int            `json:"rays"`
	Summary    map[string]int `json:"summary"`
}

// Save writes a new run directory and returns its ID.
func (s *Store) Save(name string, cfg sim.Config, workers int, b *sim.Bundle) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(name, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		EndTime:    cfg.EndTime,
		StepSize:   cfg.StepSize,
		Refraction: cfg.Refraction.String(),
		Workers:    workers,
		Rays:       len(b.Rays),
		Summary:    make(map[string]int),
	}
	for _, sc := range b.Summary() {
		meta.Summary[sc.Status.String()] = sc.Count
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := ExportJSON(filepath.Join(runDir, "bundle.json"), b); err != nil {
		return "", err
	}

	rayDir := filepath.Join(runDir, "rays")
	if err := os.MkdirAll(rayDir, 0755); err != nil {
		return "", err
	}
	for i, tr := range b.Rays {
		if err := writeRay(rayPath(rayDir, i), tr.States); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func (s *Store) newRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	for n := 0; ; n++ {
		id := base
		if n > 0 {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func rayPath(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf("%04d.csv", i))
}

func writeRay(path string, states []ray.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRayCSV(f, states); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, oldest first.
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
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadBundle reads the saved trajectories of a run.
func (s *Store) LoadBundle(runID string) (*sim.Bundle, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "bundle.json"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBundle(f)
}

// LoadRay reads ray i of a run from its CSV file.
func (s *Store) LoadRay(runID string, i int) ([]ray.State, error) {
	f, err := os.Open(rayPath(filepath.Join(s.baseDir, runID, "rays"), i))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRayCSV(f)
}
