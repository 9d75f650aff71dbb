package services

import (
	"context"
	"errors"
	"movierec/internal/database"
	"movierec/internal/engine"
	"movierec/internal/repositories"
	"movierec/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	lockNotAvailableCode   = "55P03"
	popularityWindowDays   = 30
	popularityBatchTimeout = 10 * time.Minute
)

type PopularityService struct {
	db          database.DB
	repos       repositories.Repository
	transaction *TransactionService
	lockTimeout int
	penalize    bool
	now         func() time.Time
	log         logger.Logger
}

func NewPopularityService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
	lockTimeoutSeconds int,
	applyPenalty bool,
) *PopularityService {
	return &PopularityService{
		db:          db,
		repos:       repos,
		transaction: transaction,
		lockTimeout: lockTimeoutSeconds,
		penalize:    applyPenalty,
		now:         time.Now,
		log:         logger.New("PopularityService"),
	}
}

func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == lockNotAvailableCode
}

// UpdateMoviePopularityRealtime nudges one movie's popularity for a user action.
// Contended rows are skipped rather than waited on.
func (s *PopularityService) UpdateMoviePopularityRealtime(
	ctx context.Context,
	movieID int,
	action types.ActionType,
	weight float64,
) bool {
	log := s.log.Function("UpdateMoviePopularityRealtime").TraceFromContext(ctx)

	lockTimeout := time.Duration(s.lockTimeout) * time.Second
	err := s.transaction.ExecuteWithLockTimeout(ctx, lockTimeout, func(ctx context.Context, tx *gorm.DB) error {
		movie, err := s.repos.Movie.LockForPopularityUpdate(ctx, tx, movieID)
		if err != nil {
			return err
		}

		now := s.now()
		var updatedAt *time.Time
		if !movie.UpdatedAt.IsZero() {
			updatedAt = &movie.UpdatedAt
		}
		popularity := engine.RealtimePopularity(movie.Popularity, action, weight, updatedAt, now)

		return s.repos.Movie.UpdatePopularity(ctx, tx, movieID, popularity, now)
	})

	switch {
	case err == nil:
		PopularityUpdatesTotal.WithLabelValues("applied").Inc()
		return true
	case isLockNotAvailable(err):
		PopularityUpdatesTotal.WithLabelValues("dropped").Inc()
		log.Warn("movie row locked, popularity update dropped", "movieID", movieID, "action", action)
		return false
	case errors.Is(err, repositories.ErrMovieNotFound):
		PopularityUpdatesTotal.WithLabelValues("missing").Inc()
		log.Warn("movie not found for popularity update", "movieID", movieID)
		return false
	default:
		PopularityUpdatesTotal.WithLabelValues("failed").Inc()
		log.Er("failed to update movie popularity", err, "movieID", movieID)
		return false
	}
}

// UpdateMoviePopularity recomputes every movie from its trailing 30 day activity.
func (s *PopularityService) UpdateMoviePopularity(ctx context.Context) bool {
	log := s.log.Function("UpdateMoviePopularity").TraceFromContext(ctx)
	done := log.Timer("batch popularity recompute")
	defer done()

	ctx, cancel := context.WithTimeout(ctx, popularityBatchTimeout)
	defer cancel()

	now := s.now()
	since := now.AddDate(0, 0, -popularityWindowDays)
	updated := 0

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		aggregates, err := s.repos.Activity.GetPopularityAggregates(ctx, tx, since)
		if err != nil {
			return err
		}

		for _, aggregate := range aggregates {
			popularity := engine.BatchPopularity(aggregate, now, s.penalize)
			if err := s.repos.Movie.UpdatePopularity(ctx, tx, aggregate.MovieID, popularity, now); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		log.Er("batch popularity recompute failed", err)
		return false
	}

	PopularityBatchMovies.Set(float64(updated))
	log.Info("Batch popularity recompute complete", "movies", updated)
	return true
}
