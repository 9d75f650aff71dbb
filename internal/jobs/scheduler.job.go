package jobs

import (
	"movierec/config"
	"movierec/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Hourly          = services.Hourly
	Daily           = services.Daily
	DailyProcessing = services.DailyProcessing
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	service services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	log.Info("Registering jobs")

	popularityJob := NewPopularityRecomputeJob(service.Popularity, Daily)
	if err := schedulerService.AddJob(popularityJob); err != nil {
		return log.Err("failed to register popularity recompute job", err)
	}
	log.Info("Registered popularity recompute job", "schedule", "daily 02:00")

	preferenceJob := NewGenrePreferenceRefreshJob(service.GenrePreference, DailyProcessing)
	if err := schedulerService.AddJob(preferenceJob); err != nil {
		return log.Err("failed to register genre preference refresh job", err)
	}
	log.Info("Registered genre preference refresh job", "schedule", "daily 03:00")

	snapshotJob := NewSnapshotRefreshJob(service.Snapshot, Hourly)
	if err := schedulerService.AddJob(snapshotJob); err != nil {
		return log.Err("failed to register snapshot refresh job", err)
	}
	log.Info("Registered snapshot refresh job", "schedule", "hourly")

	return nil
}
