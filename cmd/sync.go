package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/lgangitano/strava-gear/core/config"
	"github.com/lgangitano/strava-gear/core/database"
	"github.com/lgangitano/strava-gear/core/logger"
	"github.com/lgangitano/strava-gear/core/strava"
	"github.com/lgangitano/strava-gear/feature/gear/models"
	gearsync "github.com/lgangitano/strava-gear/feature/gear/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncRulesPath string

// syncCmd runs one full reconciliation against Strava and the rules file.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror bikes and activities from Strava and resolve attribution",
	Long: `Sync fetches the authenticated athlete's bikes and activities, reconciles
them into the local store, interprets the gear rules file, and recomputes the
per-activity component attribution.

Every run is idempotent: rerunning without remote or rules changes touches
nothing.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncRulesPath, "rules", "", "Path to the gear rules file (overrides config)")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	rulesPath := cfg.Gear.RulesPath
	if syncRulesPath != "" {
		rulesPath = syncRulesPath
	}

	client := strava.NewClient(cfg.Strava)

	l.Info("Fetching authenticated athlete")
	athlete, err := client.Athlete(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch athlete: %w", err)
	}

	// One store per athlete; schema applied idempotently on every run.
	db, err := database.Open(cfg.Database, athlete.ID)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}

	rulesFile, err := os.Open(rulesPath)
	if err != nil {
		return fmt.Errorf("failed to open rules file: %w", err)
	}
	defer rulesFile.Close()

	report, err := gearsync.New(db, client, l).Run(ctx, athlete, rulesFile)
	if err != nil {
		return err
	}

	l.Info("Sync report",
		zap.String("run_id", report.RunID),
		zap.Int("bikes_added", report.Bikes.Added),
		zap.Int("bikes_deleted", report.Bikes.Deleted),
		zap.Int("activities_added", report.Activities.Added),
		zap.Int("activities_deleted", report.Activities.Deleted),
		zap.Int("longterms", report.Longterms),
		zap.Int("hashtags", report.Hashtags),
		zap.Int("attributions", report.Attributions),
		zap.String("total_time", report.ExecutionTime))

	return nil
}
