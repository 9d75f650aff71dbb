package jobs

import (
	"context"
	"movierec/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type snapshotLoader interface {
	Load(ctx context.Context) error
}

type SnapshotRefreshJob struct {
	snapshot snapshotLoader
	log      logger.Logger
	schedule services.Schedule
}

func NewSnapshotRefreshJob(snapshot snapshotLoader, schedule services.Schedule) *SnapshotRefreshJob {
	log := logger.New("snapshotRefreshJob")
	log.Info("Creating new snapshot refresh job", "schedule", schedule)

	return &SnapshotRefreshJob{
		snapshot: snapshot,
		log:      log,
		schedule: schedule,
	}
}

func (j *SnapshotRefreshJob) Name() string {
	return "HourlySnapshotRefresh"
}

func (j *SnapshotRefreshJob) Execute(ctx context.Context) error {
	if err := j.snapshot.Load(ctx); err != nil {
		return j.log.Function("Execute").TraceFromContext(ctx).Err("snapshot reload failed", err)
	}
	return nil
}

func (j *SnapshotRefreshJob) Schedule() services.Schedule {
	return j.schedule
}
