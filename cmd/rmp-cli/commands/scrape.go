package commands

import (
	"fmt"
	"time"

	"rmpscrape/lib/configutil"
	"rmpscrape/lib/restyutil"
	"rmpscrape/lib/scrapers/ratemyprof"
	"rmpscrape/lib/serviceutil"
	"rmpscrape/services/professors"

	"github.com/spf13/cobra"
)

type ScrapeConfig struct {
	// base64-encoded school identifier assigned by RateMyProfessors,
	// found in the graphql requests the site makes when searching for
	// a school
	SchoolID      string `json:"school_id"`
	MaxProfessors int    `json:"max_professors"`
	// overridable for testing against a mock endpoint
	BaseUrl string `json:"base_url"`
	// courtesy pause after the upstream call, in milliseconds.
	// defaults to 1000, -1 disables it.
	CourtesyDelayMs int `json:"courtesy_delay_ms"`
}

var scrapeOut *string
var scrapeDebugDir *string

func init() {
	scrapeOut = scrapeCmd.Flags().String("out", professors.DefaultOutputFile, "The file to write scraped records to.")
	scrapeDebugDir = scrapeCmd.Flags().String("debug-http", "", "Directory to dump raw http exchanges to (debug logging only).")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <path/to/rmp.json>]",
	Short: "Scrapes professor ratings for the configured school and writes them to a JSON file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[ScrapeConfig]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.SchoolID == "" {
			serviceutil.Fatal("invalid config", fmt.Errorf("school_id must be set"))
		}

		client, err := ratemyprof.NewClient(ratemyprof.ClientOptions{
			BaseUrl:       cfg.BaseUrl,
			CourtesyDelay: time.Duration(cfg.CourtesyDelayMs) * time.Millisecond,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize client", err)
		}
		if *scrapeDebugDir != "" {
			client.SetInstrumentOutput(restyutil.NewFilesystemOutput(*scrapeDebugDir))
		}

		service := professors.NewService(client)
		records, err := service.Scrape(cmd.Context(), professors.ScrapeOptions{
			SchoolID:   cfg.SchoolID,
			Max:        cfg.MaxProfessors,
			OutputPath: *scrapeOut,
		})
		if err != nil {
			serviceutil.Fatal("failed to write output", err)
		}

		if len(records) > 0 {
			fmt.Println(professors.Summary(records))
		}
	},
}
