package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatwalks/availability-scraper/internal/config"
)

func newS3TestStorage(t *testing.T, handler http.Handler) *S3Storage {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewS3Storage(config.StorageConfig{
		Bucket:   "walk-data",
		Prefix:   "availability",
		Region:   "ap-southeast-2",
		Endpoint: server.URL,
	})
	require.NoError(t, err)
	return store
}

func TestS3Storage_WriteRecords(t *testing.T) {
	var putKey string
	var putBody []byte
	store := newS3TestStorage(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			putKey = r.URL.Path
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			putBody = body
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))

	runTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	location, err := store.WriteRecords(context.Background(), runTime, testRecords(runTime))

	require.NoError(t, err)
	assert.Equal(t, "s3://walk-data/availability/2026/03/2026-03-01-0930.csv", location)
	assert.Equal(t, "/walk-data/availability/2026/03/2026-03-01-0930.csv", putKey)
	assert.Contains(t, string(putBody), "check_timestamp")
	assert.Contains(t, string(putBody), "Clinton Hut")
}

func TestS3Storage_RefusesOverwrite(t *testing.T) {
	putCalled := false
	store := newS3TestStorage(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			// Object already there.
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			putCalled = true
			w.WriteHeader(http.StatusOK)
		}
	}))

	runTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	_, err := store.WriteRecords(context.Background(), runTime, testRecords(runTime))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.False(t, putCalled)
}

func TestS3Storage_NoRecordsNoUpload(t *testing.T) {
	requests := 0
	store := newS3TestStorage(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	}))

	runTime := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	location, err := store.WriteRecords(context.Background(), runTime, nil)

	require.NoError(t, err)
	assert.Empty(t, location)
	assert.Equal(t, 0, requests)
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(config.StorageConfig{Type: "s3"})
	assert.Error(t, err)
}
