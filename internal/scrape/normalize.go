package scrape

import (
	"log/slog"
	"time"

	"github.com/greatwalks/availability-scraper/internal/models"
)

// Normalize flattens a search response into one record per facility and
// date, stamped with checkTime. Records keep the response order: facility
// by facility, dates within each facility. Missing numeric fields become
// zero and missing strings stay empty; a facility or date entry is never
// dropped for being incomplete.
func Normalize(walk models.Walk, resp *models.SearchResponse, checkTime time.Time) []models.AvailabilityRecord {
	if resp == nil || len(resp.GreatWalkFacilityData) == 0 {
		return nil
	}

	var records []models.AvailabilityRecord
	for _, facility := range resp.GreatWalkFacilityData {
		for _, day := range facility.GreatWalkFacilityDateData {
			records = append(records, newRecord(walk, facility, day, checkTime))
		}
	}

	return records
}

func newRecord(walk models.Walk, facility models.Facility, day models.FacilityDate, checkTime time.Time) models.AvailabilityRecord {
	var capacity, available int
	if day.TotalCapacity != nil {
		capacity = *day.TotalCapacity
	}
	if day.TotalAvailable != nil {
		available = *day.TotalAvailable
	}

	// Available beds can never exceed capacity. The upstream occasionally
	// claims otherwise; clamp so downstream consumers can rely on it.
	if day.TotalCapacity != nil && day.TotalAvailable != nil && available > capacity {
		slog.Warn("available exceeds capacity, clamping",
			"walk", walk.Name,
			"facility", facility.FacilityName,
			"date", day.ArrivalDate,
			"available", available,
			"capacity", capacity)
		available = capacity
	}

	var price float64
	if day.Price != nil {
		price = *day.Price
	}

	if day.TotalCapacity == nil || day.TotalAvailable == nil || day.Price == nil {
		slog.Debug("incomplete availability entry, using defaults",
			"walk", walk.Name,
			"facility", facility.FacilityName,
			"date", day.ArrivalDate)
	}

	return models.AvailabilityRecord{
		CheckTimestamp: checkTime,
		WalkName:       walk.Name,
		PlaceID:        walk.PlaceID,
		FacilityName:   facility.FacilityName,
		FacilityID:     facility.FacilityID,
		TargetDate:     day.ArrivalDate,
		TotalCapacity:  capacity,
		TotalAvailable: available,
		BookingStatus:  day.BookingStatus,
		Price:          price,
	}
}
