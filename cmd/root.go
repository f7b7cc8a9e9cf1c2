// Package cmd defines and implements the CLI commands for the jobsync
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tobyns/jobsync/internal/config"
	"github.com/tobyns/jobsync/internal/fetch"
	"github.com/tobyns/jobsync/internal/logging"
	"github.com/tobyns/jobsync/internal/notion"
	"github.com/tobyns/jobsync/internal/reconcile"
)

var cfgFile string

// appKeyType is the key for storing the app in the command context.
type appKeyType string

const appKey appKeyType = "app"

// app bundles the services the subcommands use.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	syncer *reconcile.Syncer
}

// newApp is the application factory. It is a variable so tests can replace
// it with a mock factory.
var newApp = func(_ context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	fetcher := fetch.New(fetch.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	store := notion.New(cfg.Notion.Token, cfg.Notion.DatabaseID)

	return &app{
		cfg:    cfg,
		log:    logger,
		syncer: reconcile.New(fetcher, store, logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobsync",
		Short: "Scrape a job posting and sync it into a Notion tracker.",
		Long: `jobsync ingests a single job posting URL, extracts the company,
position, location, salary and a description excerpt using site-specific
rules, and upserts the result into a Notion database keyed by the job URL.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*app); ok && appInstance != nil {
				_ = appInstance.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; env vars and .env are enough)")
	cmd.AddCommand(newSyncCmd())

	return cmd
}

func resolveApp(ctx context.Context) (*app, error) {
	appInstance, ok := ctx.Value(appKey).(*app)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jobsync: %v\n", err)
		os.Exit(1)
	}
}
