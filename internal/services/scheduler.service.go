package services

import (
	"context"
	"errors"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/go-co-op/gocron"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobRunning  = errors.New("job already running")
)

type Schedule int

const (
	Hourly          Schedule = iota
	Daily                    // 02:00 UTC
	DailyProcessing          // 03:00 UTC, after the popularity recompute
)

func (s Schedule) String() string {
	switch s {
	case Hourly:
		return "hourly"
	case Daily:
		return "daily 02:00 UTC"
	case DailyProcessing:
		return "daily 03:00 UTC"
	default:
		return "unknown"
	}
}

// Job is a unit of recommender maintenance: popularity recompute, genre
// preference refresh, snapshot reload. Execute should honour ctx cancellation.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

// JobStatus is the admin view of one registered job.
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	Running   bool       `json:"running"`
	LastRun   *time.Time `json:"lastRun,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

type jobState struct {
	running   bool
	lastRun   *time.Time
	lastError string
}

// SchedulerService runs the maintenance jobs on gocron. A job never overlaps
// itself, so a manual popularity recompute cannot race the nightly one.
type SchedulerService struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	state     map[string]*jobState
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
	now       func() time.Time
}

func NewSchedulerService() *SchedulerService {
	scheduler := gocron.NewScheduler(time.UTC)
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: scheduler,
		jobs:      make([]Job, 0),
		state:     make(map[string]*jobState),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

// claim marks the job running. It reports false when a run is already in flight.
func (s *SchedulerService) claim(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.state[name]
	if !ok || state.running {
		return false
	}
	state.running = true
	return true
}

func (s *SchedulerService) release(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state[name]
	finished := s.now()
	state.running = false
	state.lastRun = &finished
	state.lastError = ""
	if err != nil {
		state.lastError = err.Error()
	}
}

// run executes a job that has already been claimed.
func (s *SchedulerService) run(job Job, trigger string) {
	log := s.log.Function("run")

	ctx := logger.ContextWithTraceID(s.ctx, trigger+":"+job.Name())
	log.Info("Running maintenance job", "job", job.Name(), "trigger", trigger)

	err := job.Execute(ctx)
	s.release(job.Name(), err)

	if err != nil {
		log.Er("Maintenance job failed", err, "job", job.Name(), "trigger", trigger)
		return
	}
	log.Info("Maintenance job completed", "job", job.Name(), "trigger", trigger)
}

func (s *SchedulerService) runScheduled(job Job) {
	if !s.claim(job.Name()) {
		s.log.Function("runScheduled").Warn("previous run still in progress, skipping", "job", job.Name())
		return
	}
	s.run(job, "schedule")
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At("02:00").Do(s.runScheduled, job)
	case DailyProcessing:
		_, err = s.scheduler.Every(1).Day().At("03:00").Do(s.runScheduled, job)
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(s.runScheduled, job)
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	s.state[job.Name()] = &jobState{}
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule().String())

	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		log.Info("Scheduler already started")
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", job.NextRun())
	}

	log.Info("Scheduler started", "jobCount", len(s.jobs))
	return nil
}

// Stop cancels in-flight jobs and halts the schedule.
func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Stop")

	if !s.started {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	s.scheduler.Stop()
	s.started = false

	log.Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// JobNames lists registered jobs in registration order.
func (s *SchedulerService) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name())
	}
	return names
}

func (s *SchedulerService) JobStatuses() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		state := s.state[job.Name()]
		statuses = append(statuses, JobStatus{
			Name:      job.Name(),
			Schedule:  job.Schedule().String(),
			Running:   state.running,
			LastRun:   state.lastRun,
			LastError: state.lastError,
		})
	}
	return statuses
}

// GetNextRunTime is nil until the scheduler starts.
func (s *SchedulerService) GetNextRunTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || len(s.scheduler.Jobs()) == 0 {
		return nil
	}

	_, nextRun := s.scheduler.NextRun()
	return &nextRun
}

// TriggerJobByName starts a registered job in the background, detached from the
// request context.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	log := s.log.Function("TriggerJobByName").TraceFromContext(ctx)

	s.mu.Lock()
	var target Job
	for _, job := range s.jobs {
		if job.Name() == jobName {
			target = job
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		log.Warn("job not found", "job", jobName)
		return ErrJobNotFound
	}

	if !s.claim(jobName) {
		log.Warn("job already running", "job", jobName)
		return ErrJobRunning
	}

	go s.run(target, "manual")
	return nil
}
