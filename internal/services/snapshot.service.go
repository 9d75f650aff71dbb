package services

import (
	"context"
	"movierec/internal/database"
	"movierec/internal/engine"
	"movierec/internal/events"
	"movierec/internal/repositories"
	"movierec/internal/types"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	snapshotBreakerFailures = 3
	snapshotReloadTimeout   = 2 * time.Minute
)

type snapshotData struct {
	ratings []types.RatingEvent
	movies  []types.MovieRecord
}

// SnapshotService owns the in-memory snapshot and reloads it when stale.
type SnapshotService struct {
	db         database.DB
	repos      repositories.Repository
	breaker    *gobreaker.CircuitBreaker[snapshotData]
	eventBus   *events.EventBus
	instanceID string
	maxAge     time.Duration
	now        func() time.Time
	log        logger.Logger

	mu       sync.RWMutex
	current  *engine.Snapshot
	lastLoad time.Time
}

func NewSnapshotService(
	db database.DB,
	repos repositories.Repository,
	maxAge time.Duration,
) *SnapshotService {
	log := logger.New("SnapshotService")

	breaker := gobreaker.NewCircuitBreaker[snapshotData](gobreaker.Settings{
		Name:    "snapshot-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= snapshotBreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Snapshot breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &SnapshotService{
		db:         db,
		repos:      repos,
		breaker:    breaker,
		instanceID: uuid.New().String(),
		maxAge:     maxAge,
		now:        time.Now,
		log:        log,
		current:    engine.EmptySnapshot(time.Time{}),
	}
}

// Current returns the active snapshot. It is never nil.
func (s *SnapshotService) Current() *engine.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SnapshotService) LastLoad() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoad
}

// NeedsRefresh reports whether the snapshot was never loaded or is older than maxAge.
func (s *SnapshotService) NeedsRefresh(maxAge time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastLoad.IsZero() || s.now().Sub(s.lastLoad) > maxAge
}

func (s *SnapshotService) RefreshIfNeeded(ctx context.Context) {
	if s.NeedsRefresh(s.maxAge) {
		_ = s.Load(ctx)
	}
}

// Load rebuilds the snapshot. On failure the prior snapshot is kept but the load
// time is still stamped so callers do not retry on every request.
func (s *SnapshotService) Load(ctx context.Context) error {
	log := s.log.Function("Load").TraceFromContext(ctx)
	timer := prometheus.NewTimer(SnapshotLoadDuration)
	defer timer.ObserveDuration()

	data, err := s.breaker.Execute(func() (snapshotData, error) {
		return s.fetch(ctx)
	})

	loadedAt := s.now()
	if err != nil {
		s.mu.Lock()
		s.lastLoad = loadedAt
		s.mu.Unlock()

		SnapshotLoadsTotal.WithLabelValues("failure").Inc()
		return log.Err("failed to load recommendation snapshot, keeping previous", err)
	}

	snapshot := engine.BuildSnapshot(data.ratings, data.movies, loadedAt)

	s.mu.Lock()
	s.current = snapshot
	s.lastLoad = loadedAt
	s.mu.Unlock()

	SnapshotLoadsTotal.WithLabelValues("success").Inc()
	SnapshotSize.WithLabelValues("ratings").Set(float64(len(data.ratings)))
	SnapshotSize.WithLabelValues("movies").Set(float64(len(data.movies)))
	log.Info("Snapshot loaded", "ratings", len(data.ratings), "movies", len(data.movies))
	return nil
}

// RegisterReloadHandler reloads this process's snapshot whenever another process
// broadcasts a reload.
func (s *SnapshotService) RegisterReloadHandler(eventBus *events.EventBus) error {
	s.eventBus = eventBus
	return eventBus.Subscribe(events.ADMIN_CHANNEL, s.HandleReload)
}

// Broadcast asks every other process to reload. It is a no-op without a bus.
func (s *SnapshotService) Broadcast() error {
	if s.eventBus == nil {
		return nil
	}
	return s.eventBus.PublishSnapshotReload(s.instanceID)
}

func (s *SnapshotService) HandleReload(event events.Event) error {
	log := s.log.Function("HandleReload")

	if event.Type != events.SNAPSHOT_RELOAD {
		return nil
	}

	reload, err := events.DecodeSnapshotReload(event)
	if err != nil {
		return log.Err("failed to decode snapshot reload", err, "eventID", event.ID)
	}
	if reload.Origin == s.instanceID {
		return nil
	}

	ctx, cancel := context.WithTimeout(
		logger.ContextWithTraceID(context.Background(), event.ID),
		snapshotReloadTimeout,
	)
	defer cancel()

	return s.Load(ctx)
}

func (s *SnapshotService) fetch(ctx context.Context) (snapshotData, error) {
	tx := s.db.SQLWithContext(ctx)

	ratings, err := s.repos.Rating.FetchRatings(ctx, tx)
	if err != nil {
		return snapshotData{}, err
	}

	movies, err := s.repos.Movie.FetchMovieRecords(ctx, tx)
	if err != nil {
		return snapshotData{}, err
	}

	return snapshotData{ratings: ratings, movies: movies}, nil
}
