package scrape

import (
	"time"

	"github.com/greatwalks/availability-scraper/internal/models"
)

// Windows returns the date windows that cover horizonDays days starting at
// from. Each window spans nightsPerRequest nights and starts where the
// previous one ended, so the horizon is covered without gaps or overlap.
// The window count is ceil(horizonDays / nightsPerRequest); the last
// window may reach past the horizon.
func Windows(from time.Time, horizonDays, nightsPerRequest int) []models.DateWindow {
	if horizonDays <= 0 || nightsPerRequest <= 0 {
		return nil
	}

	count := (horizonDays + nightsPerRequest - 1) / nightsPerRequest
	windows := make([]models.DateWindow, count)
	for i := range windows {
		windows[i] = models.DateWindow{
			ArrivalDate: from.AddDate(0, 0, i*nightsPerRequest),
			Nights:      nightsPerRequest,
		}
	}

	return windows
}
