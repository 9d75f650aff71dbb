package services

import (
	"context"
	"errors"
	"movierec/internal/database"
	"movierec/internal/engine"
	"movierec/internal/repositories"
	"movierec/internal/similarity"
	"movierec/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/samber/lo"
)

const similarCandidateFactor = 3

type SimilarMoviesService struct {
	db        database.DB
	repos     repositories.Repository
	snapshot  *SnapshotService
	factory   *similarity.Factory
	rng       *engine.Random
	imageBase string
	log       logger.Logger
}

func NewSimilarMoviesService(
	db database.DB,
	repos repositories.Repository,
	snapshot *SnapshotService,
	rng *engine.Random,
	imageBase string,
) *SimilarMoviesService {
	return &SimilarMoviesService{
		db:        db,
		repos:     repos,
		snapshot:  snapshot,
		factory:   similarity.NewFactory(),
		rng:       rng,
		imageBase: imageBase,
		log:       logger.New("SimilarMoviesService"),
	}
}

// GetSimilarMovies explains and selects movies similar to movieID. Failures
// yield an empty list.
func (s *SimilarMoviesService) GetSimilarMovies(
	ctx context.Context,
	movieID int,
	n int,
	excludeIDs []int,
) []types.SimilarMovie {
	log := s.log.Function("GetSimilarMovies").TraceFromContext(ctx)
	tx := s.db.SQLWithContext(ctx)

	s.snapshot.RefreshIfNeeded(ctx)

	if n <= 0 {
		return []types.SimilarMovie{}
	}

	target, err := s.repos.Movie.GetMovieRecord(ctx, tx, movieID, repositories.SimilarCastLimit)
	if err != nil {
		if !errors.Is(err, repositories.ErrMovieNotFound) {
			log.Warn("failed to load target movie", "movieID", movieID, "error", err)
		}
		return []types.SimilarMovie{}
	}

	candidates, err := s.repos.Movie.FindSimilarCandidates(ctx, tx, *target, excludeIDs, similarCandidateFactor*n)
	if err != nil {
		log.Warn("failed to find similar candidates", "movieID", movieID, "error", err)
		return []types.SimilarMovie{}
	}

	described := lo.Map(candidates, func(candidate types.MovieRecord, _ int) types.SimilarMovie {
		return similarity.Describe(s.factory, *target, candidate, s.imageBase)
	})

	return similarity.Select(described, n, s.rng)
}
