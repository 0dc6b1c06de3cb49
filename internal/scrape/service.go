package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/greatwalks/availability-scraper/internal/config"
	"github.com/greatwalks/availability-scraper/internal/docapi"
	"github.com/greatwalks/availability-scraper/internal/models"
	"github.com/greatwalks/availability-scraper/internal/storage"
)

// Searcher is the part of the booking API client the scrape run needs.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
}

// RunSummary describes one completed (or aborted) scrape run.
type RunSummary struct {
	RunID         string    `json:"run_id"`
	StartedAt     time.Time `json:"started_at"`
	WalksScraped  int       `json:"walks_scraped"`
	CallsMade     int       `json:"calls_made"`
	WindowsFailed int       `json:"windows_failed"`
	Records       int       `json:"records"`
	ArtifactPath  string    `json:"artifact_path,omitempty"`
}

// Service runs availability scrapes over the configured walks.
type Service struct {
	config  config.ScrapeConfig
	walks   []models.Walk
	client  Searcher
	storage storage.Storage

	sleep func(ctx context.Context, d time.Duration)
}

// NewService creates a scrape service.
func NewService(cfg config.ScrapeConfig, walks []models.Walk, client Searcher, store storage.Storage) *Service {
	return &Service{
		config:  cfg,
		walks:   walks,
		client:  client,
		storage: store,
		sleep:   sleepContext,
	}
}

// Run performs one full scrape: every date window of every enabled walk,
// in order, with a fixed pause between requests. Windows that fail are
// skipped; a 403 aborts the run since every further request would be
// rejected too. Whatever was collected before an abort is still written.
func (s *Service) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := slog.With("run_id", summary.RunID)

	enabled := enabledWalks(log, s.walks)
	if len(enabled) == 0 {
		log.Warn("no walks enabled, nothing to scrape")
		return summary, nil
	}

	windows := Windows(summary.StartedAt, s.config.DaysAhead, s.config.NightsPerRequest)
	log.Info("starting scrape run",
		"walks", len(enabled),
		"windows_per_walk", len(windows),
		"days_ahead", s.config.DaysAhead,
		"nights_per_request", s.config.NightsPerRequest)

	var all []models.AvailabilityRecord
	var abortErr error

	for i, walk := range enabled {
		if i > 0 {
			s.sleep(ctx, s.config.WalkDelay)
		}

		records, err := s.scrapeWalk(ctx, log, walk, windows, summary)
		all = append(all, records...)
		if err != nil {
			abortErr = err
			break
		}
		summary.WalksScraped++
	}

	summary.Records = len(all)

	var writeErr error
	if len(all) > 0 {
		path, err := s.storage.WriteRecords(ctx, summary.StartedAt, all)
		if err != nil {
			writeErr = fmt.Errorf("write records: %w", err)
		} else {
			summary.ArtifactPath = path
			log.Info("saved records", "records", len(all), "path", path)
		}
	} else {
		log.Warn("no records collected")
	}

	if err := errors.Join(abortErr, writeErr); err != nil {
		return summary, err
	}

	log.Info("scrape run complete",
		"walks_scraped", summary.WalksScraped,
		"calls_made", summary.CallsMade,
		"windows_failed", summary.WindowsFailed,
		"records", summary.Records)
	return summary, nil
}

// scrapeWalk queries every date window for one walk. Windows that fail
// are skipped; the returned error is non-nil only when the whole run must
// stop.
func (s *Service) scrapeWalk(ctx context.Context, log *slog.Logger, walk models.Walk, windows []models.DateWindow, summary *RunSummary) ([]models.AvailabilityRecord, error) {
	log.Info("scraping walk", "walk", walk.Name, "place_id", walk.PlaceID, "windows", len(windows))

	var records []models.AvailabilityRecord
	for i, window := range windows {
		if i > 0 {
			s.sleep(ctx, s.config.WindowDelay)
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		arrival := window.ArrivalDate.Format("2006-01-02")
		log.Info("requesting availability", "walk", walk.Name, "request", i+1, "requests", len(windows), "arrival", arrival)

		summary.CallsMade++
		resp, err := s.client.Search(ctx, models.NewSearchRequest(walk, window))
		if err != nil {
			if errors.Is(err, docapi.ErrAccessDenied) {
				log.Error("access denied, aborting run", "walk", walk.Name, "arrival", arrival)
				return records, fmt.Errorf("scrape %s from %s: %w", walk.Name, arrival, err)
			}
			summary.WindowsFailed++
			log.Warn("window failed, skipping", "walk", walk.Name, "arrival", arrival, "err", err)
			continue
		}

		found := Normalize(walk, resp, summary.StartedAt)
		if len(found) == 0 {
			log.Info("no facility data returned", "walk", walk.Name, "arrival", arrival)
		}
		records = append(records, found...)
	}

	log.Info("walk done", "walk", walk.Name, "records", len(records))
	return records, nil
}

// enabledWalks filters the configured walks down to the scrapeable ones.
// A walk that is enabled but has no placeId yet is skipped with a warning
// rather than sent upstream as placeId 0.
func enabledWalks(log *slog.Logger, walks []models.Walk) []models.Walk {
	var enabled []models.Walk
	for _, walk := range walks {
		if !walk.Enabled {
			continue
		}
		if walk.PlaceID == 0 {
			log.Warn("walk enabled but has no placeId, skipping", "walk", walk.Name)
			continue
		}
		enabled = append(enabled, walk)
	}
	return enabled
}

// sleepContext pauses for d unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
