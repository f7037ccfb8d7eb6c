package scheduler

import (
	"context"
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"analytics-report-backend/config"
	"analytics-report-backend/internal/service"
)

// NewCron builds a cron whose schedules start with a seconds field.
func NewCron() *cron.Cron {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.DowOptional | cron.Descriptor)
	return cron.New(cron.WithParser(parser))
}

// AddExportJob registers the export run on schedule. Runs happen in their own
// goroutine; an overlapping run is skipped by the export service.
func AddExportJob(c *cron.Cron, schedule string, exportSvc service.ReportExportService) (cron.EntryID, error) {
	return c.AddFunc(schedule, func() {
		go func() {
			if _, err := exportSvc.ExportAll(context.Background()); err != nil {
				if errors.Is(err, service.ErrExportInProgress) {
					return
				}
				log.Error().Err(err).Msg("Error during scheduled report export")
			}
		}()
	})
}

func NewScheduler(lc fx.Lifecycle, cfg *config.Config, exportSvc service.ReportExportService) (*cron.Cron, error) {
	c := NewCron()

	schedule := cfg.Export.Schedule
	if _, err := AddExportJob(c, schedule, exportSvc); err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("Failed to add cron job")
		return nil, err
	}
	log.Info().Str("schedule", schedule).Msg("Scheduled report export job")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msg("Starting cron scheduler")
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping cron scheduler...")
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				log.Info().Msg("Cron scheduler stopped gracefully.")
				return nil
			case <-ctx.Done():
				log.Error().Msg("Context cancelled while waiting for cron scheduler to stop.")
				return ctx.Err()
			}
		},
	})

	return c, nil
}
