package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tobyns/jobsync/internal/reconcile"
)

// newSyncCmd creates and configures the 'sync' subcommand, which performs
// one fetch-extract-upsert cycle for a single posting URL.
func newSyncCmd() *cobra.Command {
	var opts reconcile.Options

	cmd := &cobra.Command{
		Use:   "sync <url>",
		Short: "Fetch one job posting and upsert it into the tracker",
		Long: `Fetches the posting at the given URL, extracts structured fields using
the rule-set for the detected site (Greenhouse, LinkedIn, Indeed, Handshake,
or a generic fallback), and creates or updates the matching tracker row.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncCommand(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Applied, "applied", false, "mark the posting as applied")
	cmd.Flags().StringVar(&opts.Status, "status", "", `tracker status (default "Not Started")`)
	cmd.Flags().StringVar(&opts.AppliedDate, "applied-date", "", "applied date as YYYY-MM-DD (defaults to today with --applied)")

	return cmd
}

func runSyncCommand(cmd *cobra.Command, url string, opts reconcile.Options) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	result, err := appInstance.syncer.Sync(cmd.Context(), url, opts)
	if err != nil {
		appInstance.log.Error("sync failed", zap.String("url", url), zap.Error(err))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", result.Action, result.ID)
	return nil
}
