package cmd

import (
	"fmt"

	"github.com/lgangitano/strava-gear/core/config"
	"github.com/lgangitano/strava-gear/core/database"
	"github.com/lgangitano/strava-gear/core/logger"
	"github.com/lgangitano/strava-gear/feature/gear/models"
	"github.com/lgangitano/strava-gear/feature/gear/usage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reportAthleteID int64

// reportCmd prints cumulative wear per component from the local store.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report cumulative component wear from the local store",
	Long: `Report reads the local store of the given athlete and prints, per
component, the accumulated moving time and distance of every activity it was
attributed to, seeded with the component's initial offsets.

The store is read-only here; run sync first to refresh it.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Int64Var(&reportAthleteID, "athlete", 0, "Athlete id whose store to read (required)")
	_ = reportCmd.MarkFlagRequired("athlete")
	RootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Open(cfg.Database, reportAthleteID)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}

	var components []models.Component
	if err := db.Find(&components).Error; err != nil {
		return fmt.Errorf("failed to load components: %w", err)
	}
	var activities []models.Activity
	if err := db.Find(&activities).Error; err != nil {
		return fmt.Errorf("failed to load activities: %w", err)
	}
	var attributions []models.ActivityComponent
	if err := db.Find(&attributions).Error; err != nil {
		return fmt.Errorf("failed to load attributions: %w", err)
	}

	for _, w := range usage.Aggregate(components, activities, attributions) {
		l.Info("Component wear",
			zap.String("code", w.Component.Code),
			zap.String("name", w.Component.Name),
			zap.Float64("hours", w.Time/3600),
			zap.Float64("km", w.Distance/1000),
			zap.Int("activities", w.Activities))
	}

	return nil
}
