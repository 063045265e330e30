package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

const latestFile = "latest.json"

// FileArtifactStore persists run results as JSON files: one dated artifact
// per run plus a "latest" pointer. Writes go through a temp file and a
// rename, so a concurrent reader never sees a partially written result.
type FileArtifactStore struct {
	dir string
}

// NewFileArtifactStore creates a store rooted at dir.
func NewFileArtifactStore(dir string) *FileArtifactStore {
	return &FileArtifactStore{dir: dir}
}

// Write stores the result under its run date and repoints "latest".
func (s *FileArtifactStore) Write(_ context.Context, result *models.RunResult) error {
	if result.RunDate == "" {
		return fmt.Errorf("write run artifact: empty run date")
	}
	if err := writeJSONAtomic(s.datedPath(result.RunDate), result); err != nil {
		return fmt.Errorf("write dated artifact: %w", err)
	}
	if err := writeJSONAtomic(filepath.Join(s.dir, latestFile), result); err != nil {
		return fmt.Errorf("write latest artifact: %w", err)
	}
	return nil
}

// ReadLatest loads the current "latest" result.
func (s *FileArtifactStore) ReadLatest(_ context.Context) (*models.RunResult, error) {
	return readJSON(filepath.Join(s.dir, latestFile))
}

// ReadByDate loads the artifact for one run date.
func (s *FileArtifactStore) ReadByDate(_ context.Context, date string) (*models.RunResult, error) {
	return readJSON(s.datedPath(date))
}

func (s *FileArtifactStore) datedPath(date string) string {
	return filepath.Join(s.dir, fmt.Sprintf("signals_%s.json", date))
}

func writeJSONAtomic(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

func readJSON(path string) (*models.RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var result models.RunResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parse artifact: %w", err)
	}
	return &result, nil
}

var _ domrepo.RunArtifactStore = (*FileArtifactStore)(nil)
