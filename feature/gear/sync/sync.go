package sync

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/lgangitano/strava-gear/core/reconcile"
	"github.com/lgangitano/strava-gear/core/strava"
	"github.com/lgangitano/strava-gear/feature/gear/attribution"
	"github.com/lgangitano/strava-gear/feature/gear/models"
	"github.com/lgangitano/strava-gear/feature/gear/rules"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report summarizes one sync run.
type Report struct {
	RunID         string            `json:"run_id"`
	Bikes         reconcile.Summary `json:"bikes"`
	Activities    reconcile.Summary `json:"activities"`
	Components    reconcile.Summary `json:"components"`
	Roles         reconcile.Summary `json:"roles"`
	Longterms     int               `json:"longterms"`
	Hashtags      int               `json:"hashtags"`
	Attributions  int               `json:"attributions"`
	ExecutionTime string            `json:"execution_time"`
}

// Service sequences one full sync run: reconcile bikes, reconcile activities,
// interpret the rules file, resolve attribution. Strictly sequential,
// single-writer; the first error aborts the run with nothing retried.
type Service struct {
	db     *gorm.DB
	client strava.Client
	logger *zap.Logger
}

// New creates the sync service.
func New(db *gorm.DB, client strava.Client, logger *zap.Logger) *Service {
	return &Service{db: db, client: client, logger: logger}
}

// Run executes the full sync for the given athlete. Each sub-step commits in
// its own transaction, so a crash mid-run leaves earlier sub-steps intact;
// rerunning from the top is always safe because every table is derived
// deterministically from its sources.
func (s *Service) Run(ctx context.Context, athlete *strava.Athlete, rulesText io.Reader) (*Report, error) {
	startTime := time.Now()
	report := &Report{RunID: uuid.NewString()}
	l := s.logger.With(
		zap.String("run_id", report.RunID),
		zap.Int64("athlete_id", athlete.ID),
	)

	// 1. Reconcile bikes from the athlete profile.
	stepStart := time.Now()
	bikes := make([]models.Bike, 0, len(athlete.Bikes))
	for _, g := range athlete.Bikes {
		bikes = append(bikes, models.Bike{StravaID: g.ID, Name: g.Name})
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		outcomes, err := reconcile.Sync(tx, models.BikeAdapter(), bikes)
		if err != nil {
			return err
		}
		report.Bikes = reconcile.Summarize(outcomes)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reconciling bikes: %w", err)
	}
	logStep(l, "Bikes reconciled", stepStart, report.Bikes)

	// 2. Fetch and reconcile activities.
	stepStart = time.Now()
	remote, err := s.client.ActivitiesBefore(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}
	activities := make([]models.Activity, 0, len(remote))
	for _, a := range remote {
		act := models.Activity{
			StravaID:   a.ID,
			Name:       a.Name,
			StartsAt:   a.StartDate.UTC(),
			MovingTime: a.MovingTime,
			Distance:   a.Distance,
		}
		if a.GearID != "" {
			gearID := a.GearID
			act.BikeStravaID = &gearID
		}
		activities = append(activities, act)
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		outcomes, err := reconcile.Sync(tx, models.ActivityAdapter(), activities)
		if err != nil {
			return err
		}
		report.Activities = reconcile.Summarize(outcomes)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reconciling activities: %w", err)
	}
	logStep(l, "Activities reconciled", stepStart, report.Activities)

	// 3. Parse rules and reconcile components and roles.
	stepStart = time.Now()
	doc, err := rules.Parse(rulesText)
	if err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	components := make([]models.Component, 0, len(doc.Components))
	for _, d := range doc.Components {
		components = append(components, models.Component{
			Code:            d.Code,
			Name:            d.Name,
			InitialTime:     d.InitialTime,
			InitialDistance: d.InitialDistance,
		})
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		outcomes, err := reconcile.Sync(tx, models.ComponentAdapter(), components)
		if err != nil {
			return err
		}
		report.Components = reconcile.Summarize(outcomes)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reconciling components: %w", err)
	}
	logStep(l, "Components reconciled", stepStart, report.Components)

	stepStart = time.Now()
	roles := make([]models.ComponentRole, 0, len(doc.Roles))
	for _, d := range doc.Roles {
		roles = append(roles, models.ComponentRole{Name: d.Name})
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		outcomes, err := reconcile.Sync(tx, models.RoleAdapter(), roles)
		if err != nil {
			return err
		}
		report.Roles = reconcile.Summarize(outcomes)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reconciling roles: %w", err)
	}
	logStep(l, "Roles reconciled", stepStart, report.Roles)

	// 4. Resolve rules into the assignment tables. The lookup, the
	// resolution and the table replacement share one transaction so a
	// reader never observes empty rule tables.
	stepStart = time.Now()
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		lk, err := rules.BuildLookup(tx)
		if err != nil {
			return err
		}
		longterms, hashtags, err := rules.Resolve(doc, lk)
		if err != nil {
			return err
		}
		if err := reconcile.ReplaceAll(tx, longterms); err != nil {
			return fmt.Errorf("replacing longterm assignments: %w", err)
		}
		if err := reconcile.ReplaceAll(tx, hashtags); err != nil {
			return fmt.Errorf("replacing hashtag rules: %w", err)
		}
		report.Longterms = len(longterms)
		report.Hashtags = len(hashtags)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("interpreting rules: %w", err)
	}
	l.Info("Rules interpreted",
		zap.Duration("duration", time.Since(stepStart)),
		zap.Int("longterms", report.Longterms),
		zap.Int("hashtags", report.Hashtags))

	// 5. Resolve attribution and replace the whole table.
	stepStart = time.Now()
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var stored []models.Activity
		if err := tx.Find(&stored).Error; err != nil {
			return fmt.Errorf("loading activities: %w", err)
		}
		var storedBikes []models.Bike
		if err := tx.Find(&storedBikes).Error; err != nil {
			return fmt.Errorf("loading bikes: %w", err)
		}
		bikesByStravaID := make(map[string]models.Bike, len(storedBikes))
		for _, b := range storedBikes {
			bikesByStravaID[b.StravaID] = b
		}
		var longterms []models.LongtermBikeComponent
		if err := tx.Find(&longterms).Error; err != nil {
			return fmt.Errorf("loading longterm assignments: %w", err)
		}
		var hashtags []models.HashTagBikeComponent
		if err := tx.Find(&hashtags).Error; err != nil {
			return fmt.Errorf("loading hashtag rules: %w", err)
		}

		resolved, err := attribution.Resolve(stored, bikesByStravaID, longterms, hashtags)
		if err != nil {
			return err
		}
		if err := reconcile.ReplaceAll(tx, resolved); err != nil {
			return fmt.Errorf("replacing attributions: %w", err)
		}
		report.Attributions = len(resolved)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("resolving attribution: %w", err)
	}
	l.Info("Attribution resolved",
		zap.Duration("duration", time.Since(stepStart)),
		zap.Int("attributions", report.Attributions))

	report.ExecutionTime = time.Since(startTime).String()
	l.Info("Sync completed", zap.String("total_time", report.ExecutionTime))
	return report, nil
}

// logStep reports a reconciliation sub-step with its outcome counts.
func logStep(l *zap.Logger, msg string, start time.Time, s reconcile.Summary) {
	l.Info(msg,
		zap.Duration("duration", time.Since(start)),
		zap.Int("added", s.Added),
		zap.Int("updated", s.Updated),
		zap.Int("noop", s.Noop),
		zap.Int("deleted", s.Deleted))
}
