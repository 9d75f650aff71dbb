package services

import (
	"context"
	"movierec/internal/database"
	"movierec/internal/engine"
	"movierec/internal/repositories"
	"movierec/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// PopularService serves popular and randomly sampled movies.
type PopularService struct {
	db    database.DB
	repos repositories.Repository
	rng   *engine.Random
	log   logger.Logger
}

func NewPopularService(db database.DB, repos repositories.Repository, rng *engine.Random) *PopularService {
	return &PopularService{
		db:    db,
		repos: repos,
		rng:   rng,
		log:   logger.New("PopularService"),
	}
}

// GetPopularMovies shuffles the top 2n popular movies and falls back to random
// sampling when nothing qualifies.
func (s *PopularService) GetPopularMovies(ctx context.Context, n int) []int {
	log := s.log.Function("GetPopularMovies").TraceFromContext(ctx)

	if n <= 0 {
		return []int{}
	}

	ids, err := s.repos.Movie.GetPopularIDs(ctx, s.db.SQLWithContext(ctx), 2*n)
	if err != nil {
		log.Warn("popular query failed, sampling at random", "error", err)
	}
	if len(ids) > 0 {
		return engine.Sample(s.rng, ids, n)
	}

	return s.sampleRandom(ctx, n, mapset.NewThreadUnsafeSet[int]())
}

// GetPopularExcluding samples random movies outside exclude and the user's rated set.
func (s *PopularService) GetPopularExcluding(ctx context.Context, n int, exclude []int, userID int) []int {
	log := s.log.Function("GetPopularExcluding").TraceFromContext(ctx)

	if n <= 0 {
		return []int{}
	}

	excluded := mapset.NewThreadUnsafeSet(exclude...)
	rated, err := s.repos.Rating.GetRatedMovieIDs(ctx, s.db.SQLWithContext(ctx), userID)
	if err != nil {
		log.Warn("failed to load rated movies for exclusion", "userID", userID, "error", err)
	}
	excluded.Append(rated...)

	return s.sampleRandom(ctx, n, excluded)
}

// sampleRandom picks a random start id and walks forward, wrapping to the beginning.
func (s *PopularService) sampleRandom(ctx context.Context, n int, excluded mapset.Set[int]) []int {
	log := s.log.Function("sampleRandom")
	tx := s.db.SQLWithContext(ctx)

	bounds, err := s.repos.Movie.GetIDBounds(ctx, tx)
	if err != nil || bounds.MaxID == 0 {
		if err != nil {
			log.Warn("failed to get movie id bounds", "error", err)
		}
		return []int{}
	}

	start := s.rng.IntRange(bounds.MinID, bounds.MaxID)
	excludeIDs := excluded.ToSlice()

	ids, err := s.repos.Movie.GetIDsFrom(ctx, tx, start, n, excludeIDs)
	if err != nil {
		log.Warn("failed to sample movies", "start", start, "error", err)
		return []int{}
	}

	if len(ids) < n {
		wrapped, err := s.repos.Movie.GetIDsBefore(ctx, tx, start, n-len(ids), excludeIDs)
		if err != nil {
			log.Warn("failed to sample wrapped movies", "start", start, "error", err)
		}
		ids = append(ids, wrapped...)
	}

	return lo.Uniq(ids)
}

// PopularFallback scores popular movies around their vote average and diversifies them.
func (s *PopularService) PopularFallback(
	ctx context.Context,
	snapshot *engine.Snapshot,
	n int,
	spread, minScore, maxScore float64,
) []types.ScoredMovie {
	ids := s.GetPopularMovies(ctx, 2*n)
	scored := make([]types.ScoredMovie, 0, len(ids))
	for _, id := range ids {
		movie, ok := snapshot.Movie(id)
		if !ok {
			movie = types.MovieRecord{ID: id}
		}
		scored = append(scored, types.ScoredMovie{
			MovieID: id,
			Score:   engine.PopularFallbackScore(movie, spread, minScore, maxScore, s.rng),
		})
	}
	return engine.Diversify(scored, snapshot.Movie, n)
}
