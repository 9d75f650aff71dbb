package adminController

import (
	"context"
	"errors"
	"movierec/internal/services"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

var (
	ErrPopularityRecompute = errors.New("popularity recompute did not complete")
	ErrJobNotFound         = services.ErrJobNotFound
	ErrJobRunning          = services.ErrJobRunning
)

type SnapshotStatus struct {
	LoadedAt    time.Time `json:"loadedAt"`
	LastAttempt time.Time `json:"lastAttempt"`
	Ratings     int       `json:"ratings"`
	Movies      int       `json:"movies"`
}

type JobsStatus struct {
	Running bool                 `json:"running"`
	Jobs    []services.JobStatus `json:"jobs"`
	NextRun *time.Time           `json:"nextRun,omitempty"`
}

type AdminController struct {
	popularity *services.PopularityService
	snapshot   *services.SnapshotService
	scheduler  *services.SchedulerService
	log        logger.Logger
}

type AdminControllerInterface interface {
	RecomputePopularity(ctx context.Context) error
	ReloadSnapshot(ctx context.Context) (SnapshotStatus, error)
	GetSnapshotStatus() SnapshotStatus
	TriggerJob(ctx context.Context, name string) error
	GetJobsStatus() JobsStatus
}

func New(services services.Service) AdminControllerInterface {
	return &AdminController{
		popularity: services.Popularity,
		snapshot:   services.Snapshot,
		scheduler:  services.Scheduler,
		log:        logger.New("adminController"),
	}
}

func (ac *AdminController) RecomputePopularity(ctx context.Context) error {
	log := ac.log.Function("RecomputePopularity").TraceFromContext(ctx)

	if !ac.popularity.UpdateMoviePopularity(ctx) {
		return log.Err("manual recompute failed", ErrPopularityRecompute)
	}
	return nil
}

// ReloadSnapshot reloads locally, then asks the other API processes to follow.
func (ac *AdminController) ReloadSnapshot(ctx context.Context) (SnapshotStatus, error) {
	log := ac.log.Function("ReloadSnapshot").TraceFromContext(ctx)

	if err := ac.snapshot.Load(ctx); err != nil {
		return ac.GetSnapshotStatus(), log.Err("snapshot reload failed", err)
	}
	if err := ac.snapshot.Broadcast(); err != nil {
		log.Warn("failed to broadcast snapshot reload", "error", err)
	}
	return ac.GetSnapshotStatus(), nil
}

func (ac *AdminController) GetSnapshotStatus() SnapshotStatus {
	current := ac.snapshot.Current()
	return SnapshotStatus{
		LoadedAt:    current.LoadedAt,
		LastAttempt: ac.snapshot.LastLoad(),
		Ratings:     len(current.Ratings),
		Movies:      len(current.Movies),
	}
}

func (ac *AdminController) TriggerJob(ctx context.Context, name string) error {
	return ac.scheduler.TriggerJobByName(ctx, name)
}

func (ac *AdminController) GetJobsStatus() JobsStatus {
	return JobsStatus{
		Running: ac.scheduler.IsRunning(),
		Jobs:    ac.scheduler.JobStatuses(),
		NextRun: ac.scheduler.GetNextRunTime(),
	}
}
