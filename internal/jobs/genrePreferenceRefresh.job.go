package jobs

import (
	"context"
	"movierec/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type genrePreferenceRefresher interface {
	RefreshAllUsers(ctx context.Context) (int, error)
}

// GenrePreferenceRefreshJob rebuilds every user's genre preferences after the
// popularity recompute has run.
type GenrePreferenceRefreshJob struct {
	preferences genrePreferenceRefresher
	log         logger.Logger
	schedule    services.Schedule
}

func NewGenrePreferenceRefreshJob(
	preferences genrePreferenceRefresher,
	schedule services.Schedule,
) *GenrePreferenceRefreshJob {
	log := logger.New("genrePreferenceRefreshJob")
	log.Info("Creating new genre preference refresh job", "schedule", schedule)

	return &GenrePreferenceRefreshJob{
		preferences: preferences,
		log:         log,
		schedule:    schedule,
	}
}

func (j *GenrePreferenceRefreshJob) Name() string {
	return "DailyGenrePreferenceRefresh"
}

func (j *GenrePreferenceRefreshJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute").TraceFromContext(ctx)

	log.Info("Starting genre preference refresh")
	refreshed, err := j.preferences.RefreshAllUsers(ctx)
	if err != nil {
		return log.Err("genre preference refresh failed", err, "refreshed", refreshed)
	}

	log.Info("Genre preference refresh completed", "users", refreshed)
	return nil
}

func (j *GenrePreferenceRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
