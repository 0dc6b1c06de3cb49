package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/greatwalks/availability-scraper/internal/config"
	"github.com/greatwalks/availability-scraper/internal/models"
)

// Storage writes the records of one scrape run to a timestamped artifact.
type Storage interface {
	// WriteRecords writes all records of the run that started at runTime
	// and returns the location of the artifact it created. It refuses to
	// overwrite an existing artifact. Writing zero records is a no-op.
	WriteRecords(ctx context.Context, runTime time.Time, records []models.AvailabilityRecord) (string, error)
	Close() error
}

// New creates a storage backend based on configuration.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "file":
		return NewFileStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
