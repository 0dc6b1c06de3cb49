package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatwalks/availability-scraper/internal/config"
	"github.com/greatwalks/availability-scraper/internal/models"
)

func testRecords(runTime time.Time) []models.AvailabilityRecord {
	return []models.AvailabilityRecord{
		{
			CheckTimestamp: runTime,
			WalkName:       "Milford Track",
			PlaceID:        873,
			FacilityName:   "Clinton Hut",
			FacilityID:     101,
			TargetDate:     "2026-03-02",
			TotalCapacity:  40,
			TotalAvailable: 12,
			BookingStatus:  "Open",
			Price:          78,
		},
		{
			CheckTimestamp: runTime,
			WalkName:       "Milford Track",
			PlaceID:        873,
			FacilityName:   "Mintaro Hut",
			FacilityID:     102,
			TargetDate:     "2026-03-02",
			TotalCapacity:  40,
			TotalAvailable: 0,
			BookingStatus:  "Full",
			Price:          78,
		},
	}
}

func TestFileStorage_WriteRecords(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStorage(config.StorageConfig{DataDir: dir})
	require.NoError(t, err)

	runTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	path, err := store.WriteRecords(context.Background(), runTime, testRecords(runTime))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2026", "03", "2026-03-01-0930.csv"), path)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"2026-03-01T09:30:00Z",
		"Milford Track",
		"873",
		"Clinton Hut",
		"101",
		"2026-03-02",
		"40",
		"12",
		"Open",
		"78.00",
	}, rows[1])
	assert.Equal(t, "Mintaro Hut", rows[2][3])
}

func TestFileStorage_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStorage(config.StorageConfig{DataDir: dir})
	require.NoError(t, err)

	runTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err = store.WriteRecords(context.Background(), runTime, testRecords(runTime))
	require.NoError(t, err)

	_, err = store.WriteRecords(context.Background(), runTime, testRecords(runTime))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create artifact")
}

func TestFileStorage_NoRecordsNoFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStorage(config.StorageConfig{DataDir: dir})
	require.NoError(t, err)

	runTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	path, err := store.WriteRecords(context.Background(), runTime, nil)

	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewFileStorage_RequiresDataDir(t *testing.T) {
	_, err := NewFileStorage(config.StorageConfig{})
	assert.Error(t, err)
}

func TestNew_SelectsBackend(t *testing.T) {
	store, err := New(config.StorageConfig{Type: "file", DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStorage{}, store)

	_, err = New(config.StorageConfig{Type: "carrier-pigeon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type")
}
