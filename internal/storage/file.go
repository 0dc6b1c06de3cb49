package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/greatwalks/availability-scraper/internal/config"
	"github.com/greatwalks/availability-scraper/internal/models"
)

// FileStorage writes artifacts into a local directory tree.
type FileStorage struct {
	dataDir string
}

// NewFileStorage creates a file storage rooted at cfg.DataDir.
func NewFileStorage(cfg config.StorageConfig) (*FileStorage, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory is required for file storage")
	}
	return &FileStorage{dataDir: cfg.DataDir}, nil
}

// WriteRecords writes the run's records to
// <dataDir>/<year>/<month>/<YYYY-MM-DD-HHMM>.csv.
func (f *FileStorage) WriteRecords(ctx context.Context, runTime time.Time, records []models.AvailabilityRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}

	name := filepath.Join(f.dataDir, filepath.FromSlash(artifactName(runTime)))
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("create artifact directory: %w", err)
	}

	data, err := encodeRecords(records)
	if err != nil {
		return "", fmt.Errorf("encode records: %w", err)
	}

	// O_EXCL keeps a rerun in the same minute from clobbering the
	// earlier artifact.
	file, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close artifact: %w", err)
	}

	return name, nil
}

// Close implements Storage. There is nothing to release.
func (f *FileStorage) Close() error {
	return nil
}
