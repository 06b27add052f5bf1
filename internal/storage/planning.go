// Package storage persists planning data as JSON files, one per case,
// under the console data directory.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ct-console/internal/exam"
	"ct-console/internal/planning"
)

const planningExt = ".plan.json"

// PlanningFile is the on-disk shape of a committed plan.
type PlanningFile struct {
	Version  int               `json:"version"`
	CaseID   string            `json:"case_id"`
	Saved    time.Time         `json:"saved"`
	Snapshot planning.Snapshot `json:"snapshot"`
}

// Store writes and reads planning files. Each save carries a full snapshot,
// so concurrent commits for the same case resolve as last-write-wins; no
// field-level merging exists.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory tree is created
// lazily on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store root.
func (s *Store) Dir() string { return s.dir }

// SavePlanning writes the snapshot for a case, creating the hierarchical
// case path under the store root. Implements exam.PlanningStore.
func (s *Store) SavePlanning(id exam.CaseID, snap planning.Snapshot) error {
	file := PlanningFile{
		Version:  1,
		CaseID:   string(id),
		Saved:    time.Now(),
		Snapshot: snap,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode planning for %s: %w", id, err)
	}

	path := s.planningPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create planning dir for %s: %w", id, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write planning for %s: %w", id, err)
	}
	return nil
}

// LoadPlanning reads the committed snapshot for a case. The reconstruction
// step uses this; case selection never does (a fresh case always starts
// from the default plan).
func (s *Store) LoadPlanning(id exam.CaseID) (planning.Snapshot, error) {
	data, err := os.ReadFile(s.planningPath(id))
	if err != nil {
		return planning.Snapshot{}, fmt.Errorf("failed to read planning for %s: %w", id, err)
	}

	var file PlanningFile
	if err := json.Unmarshal(data, &file); err != nil {
		return planning.Snapshot{}, fmt.Errorf("failed to parse planning for %s: %w", id, err)
	}
	return file.Snapshot, nil
}

// HasPlanning reports whether a committed plan exists for the case.
func (s *Store) HasPlanning(id exam.CaseID) bool {
	_, err := os.Stat(s.planningPath(id))
	return err == nil
}

func (s *Store) planningPath(id exam.CaseID) string {
	return filepath.Join(s.dir, filepath.FromSlash(string(id))+planningExt)
}
