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

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [usernames...]",
	Short: "Ingest a list of profiles sequentially",
	Long: `Ingest several profiles one after another, persisting each result as it
completes. Without arguments the configured target list is used, which
defaults to a set of well-known public accounts.

A failing profile never stops the batch; a per-profile summary is printed
at the end.`,
	Example: `  # Ingest the configured default targets
  igingest batch

  # Ingest specific profiles
  igingest batch nasa natgeo nike`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runBatch(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for data files (default: ./data)")
	batchCmd.Flags().IntVar(&maxPosts, "max-posts", defaultMaxPosts, "maximum posts to fetch per profile (0 = all)")
	batchCmd.Flags().IntVar(&delaySeconds, "delay", defaultDelaySeconds, "seconds to wait between post fetches")
	batchCmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "mirror rows into this Postgres database")
}

func runBatch(cmd *cobra.Command, args []string) {
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

	usernames := args
	if len(usernames) == 0 {
		usernames = p.cfg.Scrape.Targets
	}

	var valid []string
	for _, raw := range usernames {
		username := instagram.SanitizeUsername(raw)
		if !instagram.IsValidUsername(username) {
			ui.PrintWarning("Skipping invalid username", raw)
			continue
		}
		valid = append(valid, username)
	}
	if len(valid) == 0 {
		ui.PrintError("No valid usernames to ingest")
		os.Exit(1)
	}

	ui.PrintInfo("Targets", fmt.Sprintf("%d profiles", len(valid)))

	reports := p.runner.Run(ctx, valid)

	ui.PrintHighlight("Batch summary")
	failures := 0
	for _, report := range reports {
		switch report.Outcome {
		case models.OutcomeComplete:
			ui.PrintSuccess(fmt.Sprintf("  %-20s complete  %d posts", report.Username, report.Posts))
		case models.OutcomePartial:
			ui.PrintWarning(fmt.Sprintf("  %-20s partial   %d posts", report.Username, report.Posts))
		default:
			failures++
			detail := ""
			if report.Err != nil {
				detail = report.Err.Error()
			}
			ui.PrintError(fmt.Sprintf("  %-20s failed    %s", report.Username, detail))
		}
	}

	if failures == len(reports) {
		os.Exit(1)
	}
}
