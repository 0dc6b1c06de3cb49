package storage

import (
	"bytes"
	"encoding/csv"
	"path"
	"strconv"
	"time"

	"github.com/greatwalks/availability-scraper/internal/models"
)

// csvHeader is the column order of every artifact.
var csvHeader = []string{
	"check_timestamp",
	"walk_name",
	"place_id",
	"facility_name",
	"facility_id",
	"target_date",
	"total_capacity",
	"total_available",
	"booking_status",
	"price",
}

// artifactName returns a run's artifact path relative to the storage
// root: <year>/<month>/<YYYY-MM-DD-HHMM>.csv. Partitioning by year and
// month keeps listings manageable as daily runs accumulate.
func artifactName(runTime time.Time) string {
	return path.Join(
		runTime.Format("2006"),
		runTime.Format("01"),
		runTime.Format("2006-01-02-1504")+".csv",
	)
}

// encodeRecords renders records as CSV with a header row.
func encodeRecords(records []models.AvailabilityRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.CheckTimestamp.Format(time.RFC3339),
			r.WalkName,
			strconv.Itoa(r.PlaceID),
			r.FacilityName,
			strconv.Itoa(r.FacilityID),
			r.TargetDate,
			strconv.Itoa(r.TotalCapacity),
			strconv.Itoa(r.TotalAvailable),
			r.BookingStatus,
			strconv.FormatFloat(r.Price, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
