package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greatwalks/availability-scraper/internal/config"
	"github.com/greatwalks/availability-scraper/internal/docapi"
	"github.com/greatwalks/availability-scraper/internal/models"
)

// Milford Track, the busiest walk, makes a good connectivity check.
const defaultProbePlaceID = 873

func newProbeCmd() *cobra.Command {
	var (
		placeID     int
		nights      int
		daysFromNow int
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send a single availability request and print what comes back",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			client := docapi.NewClient(docapi.Config{
				URL:     cfg.API.URL,
				Timeout: cfg.API.Timeout,
			})

			walk := models.Walk{PlaceID: placeID}
			window := models.DateWindow{
				ArrivalDate: time.Now().AddDate(0, 0, daysFromNow),
				Nights:      nights,
			}

			fmt.Printf("Probing placeId %d (arrival %s, %d nights)\n",
				placeID, window.ArrivalDate.Format("2006-01-02"), nights)

			resp, err := client.Search(cmd.Context(), models.NewSearchRequest(walk, window))
			if err != nil {
				return err
			}

			printFacilities(resp.GreatWalkFacilityData)
			return nil
		},
	}

	cmd.Flags().IntVar(&placeID, "place-id", defaultProbePlaceID, "placeId to query")
	cmd.Flags().IntVar(&nights, "nights", 5, "number of nights to query")
	cmd.Flags().IntVar(&daysFromNow, "days-from-now", 30, "days from today to the arrival date")

	return cmd
}

func printFacilities(facilities []models.Facility) {
	if len(facilities) == 0 {
		fmt.Println("No facility data returned")
		return
	}

	fmt.Printf("Found %d facilities:\n", len(facilities))
	shown := facilities
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, facility := range shown {
		fmt.Printf("\n  %s (id %d)\n", facility.FacilityName, facility.FacilityID)
		dates := facility.GreatWalkFacilityDateData
		fmt.Printf("    Dates available: %d\n", len(dates))
		if len(dates) == 0 {
			continue
		}

		first := dates[0]
		fmt.Printf("    First date: %s\n", first.ArrivalDate)
		fmt.Printf("    Available: %d/%d\n", intValue(first.TotalAvailable), intValue(first.TotalCapacity))
		fmt.Printf("    Price: $%.2f\n", floatValue(first.Price))
	}
	if len(facilities) > 3 {
		fmt.Printf("\n  ... and %d more facilities\n", len(facilities)-3)
	}
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
