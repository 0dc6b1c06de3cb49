package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greatwalks/availability-scraper/internal/config"
	"github.com/greatwalks/availability-scraper/internal/docapi"
	"github.com/greatwalks/availability-scraper/internal/scrape"
	"github.com/greatwalks/availability-scraper/internal/storage"
)

func newScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Run one full availability scrape over all enabled walks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			store, err := storage.New(cfg.Storage)
			if err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			defer store.Close()

			client := docapi.NewClient(docapi.Config{
				URL:     cfg.API.URL,
				Timeout: cfg.API.Timeout,
			})

			service := scrape.NewService(cfg.Scrape, cfg.Walks, client, store)
			if _, err := service.Run(cmd.Context()); err != nil {
				return err
			}
			return nil
		},
	}
}
