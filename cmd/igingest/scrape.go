package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"igingest/pkg/instagram"
	"igingest/pkg/models"
	"igingest/pkg/ui"
)

const (
	defaultMaxPosts     = 100
	defaultDelaySeconds = 5
)

var (
	// Scrape command flags
	outputDir    string
	maxPosts     int
	delaySeconds int
	postgresDSN  string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <username>",
	Short: "Ingest a single public Instagram profile",
	Long: `Fetch a public Instagram profile and its recent posts, then write the
result as a timestamped JSON document and CSV file under the data directory.

Only public profiles can be ingested. Private and nonexistent profiles are
reported as failures without producing output files.`,
	Example: `  # Ingest with default settings
  igingest scrape natgeo

  # Write output to a specific directory, capped at 20 posts
  igingest scrape natgeo --output ./data --max-posts 20

  # Slow down and mirror rows into Postgres
  igingest scrape natgeo --delay 10 --postgres-dsn postgres://localhost/ig`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for data files (default: ./data)")
	scrapeCmd.Flags().IntVar(&maxPosts, "max-posts", defaultMaxPosts, "maximum posts to fetch per profile (0 = all)")
	scrapeCmd.Flags().IntVar(&delaySeconds, "delay", defaultDelaySeconds, "seconds to wait between post fetches")
	scrapeCmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "mirror rows into this Postgres database")
}

func runScrape(cmd *cobra.Command, args []string) {
	username := instagram.SanitizeUsername(args[0])
	if !instagram.IsValidUsername(username) {
		ui.PrintError("Invalid username", args[0])
		os.Exit(1)
	}
	ui.PrintInfo("Target Profile", username)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := buildPipeline(ctx, commandFlags())
	if err != nil {
		ui.PrintError("Failed to initialize pipeline", err.Error())
		os.Exit(1)
	}
	defer p.close()

	reports := p.runner.Run(ctx, []string{username})
	report := reports[0]

	switch report.Outcome {
	case models.OutcomeComplete:
		ui.PrintSuccess(fmt.Sprintf("Ingested %d posts from %s", report.Posts, username))
	case models.OutcomePartial:
		ui.PrintWarning(fmt.Sprintf("Partial ingest: kept %d posts from %s", report.Posts, username))
		if report.Err != nil {
			ui.PrintWarning("Stream error", report.Err.Error())
		}
	default:
		if report.Err != nil {
			ui.PrintError("Ingest failed", report.Err.Error())
		} else {
			ui.PrintError("Ingest failed")
		}
		os.Exit(1)
	}
}
