package jobs

import (
	"context"
	"errors"
	"movierec/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrPopularityRecomputeFailed = errors.New("popularity recompute failed")

type popularityUpdater interface {
	UpdateMoviePopularity(ctx context.Context) bool
}

type PopularityRecomputeJob struct {
	popularity popularityUpdater
	log        logger.Logger
	schedule   services.Schedule
}

func NewPopularityRecomputeJob(
	popularity popularityUpdater,
	schedule services.Schedule,
) *PopularityRecomputeJob {
	log := logger.New("popularityRecomputeJob")
	log.Info("Creating new popularity recompute job", "schedule", schedule)

	return &PopularityRecomputeJob{
		popularity: popularity,
		log:        log,
		schedule:   schedule,
	}
}

func (j *PopularityRecomputeJob) Name() string {
	return "DailyPopularityRecompute"
}

func (j *PopularityRecomputeJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute").TraceFromContext(ctx)

	log.Info("Starting popularity recompute")
	if !j.popularity.UpdateMoviePopularity(ctx) {
		log.Warn("batch update did not complete")
		return ErrPopularityRecomputeFailed
	}

	log.Info("Popularity recompute completed")
	return nil
}

func (j *PopularityRecomputeJob) Schedule() services.Schedule {
	return j.schedule
}
