package services

import (
	"context"
	"movierec/internal/database"
	"movierec/internal/engine"
	"movierec/internal/models"
	"movierec/internal/repositories"
	"movierec/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/samber/lo"
)

// KnowledgeService recommends without collaborative signal, from genre tastes or
// catalog quality alone.
type KnowledgeService struct {
	db    database.DB
	repos repositories.Repository
	rng   *engine.Random
	now   func() time.Time
	log   logger.Logger
}

func NewKnowledgeService(db database.DB, repos repositories.Repository, rng *engine.Random) *KnowledgeService {
	return &KnowledgeService{
		db:    db,
		repos: repos,
		rng:   rng,
		now:   time.Now,
		log:   logger.New("KnowledgeService"),
	}
}

// ForUser uses top genre preferences, then declared genres, then the new-user ranking.
// Declared directors and actors boost matching candidates.
func (s *KnowledgeService) ForUser(ctx context.Context, userID int, n int, exclude []int) []types.ScoredMovie {
	log := s.log.Function("ForUser").TraceFromContext(ctx)
	tx := s.db.SQLWithContext(ctx)

	declared := s.declaredPreferences(ctx, userID)
	genres := s.preferredGenres(ctx, userID, declared)
	if len(genres) == 0 {
		return s.ForNewUser(ctx, n, exclude)
	}

	candidates, err := s.repos.Movie.FindGenreCandidates(ctx, tx, genres, exclude, 2*n)
	if err != nil {
		log.Warn("genre candidates failed", "userID", userID, "error", err)
		return []types.ScoredMovie{}
	}
	if len(candidates) == 0 {
		return s.ForNewUser(ctx, n, exclude)
	}

	directors := []string(declared.Directors)
	actors := []string(declared.Actors)
	credited := s.creditedCandidates(ctx, candidates, directors, actors)

	now := s.now()
	return engine.ScoreCandidates(candidates, n, func(movie types.MovieRecord) float64 {
		boost := engine.DeclaredPeopleBoost(credited[movie.ID], directors, actors)
		return engine.GenrePreferenceScore(movie, now, s.rng) * (1 + boost)
	}, s.rng)
}

// creditedCandidates reloads candidates with their credits, only when the user
// declared people to match against.
func (s *KnowledgeService) creditedCandidates(
	ctx context.Context,
	candidates []types.MovieRecord,
	directors []string,
	actors []string,
) map[int]types.MovieRecord {
	if len(directors) == 0 && len(actors) == 0 {
		return map[int]types.MovieRecord{}
	}

	ids := lo.Map(candidates, func(movie types.MovieRecord, _ int) int { return movie.ID })
	records, err := s.repos.Movie.GetRecordsByIDs(ctx, s.db.SQLWithContext(ctx), ids)
	if err != nil {
		s.log.Function("creditedCandidates").Warn("failed to load candidate credits", "error", err)
		return map[int]types.MovieRecord{}
	}
	return lo.SliceToMap(records, func(movie types.MovieRecord) (int, types.MovieRecord) {
		return movie.ID, movie
	})
}

func (s *KnowledgeService) ForNewUser(ctx context.Context, n int, exclude []int) []types.ScoredMovie {
	log := s.log.Function("ForNewUser").TraceFromContext(ctx)

	candidates, err := s.repos.Movie.FindByNewUserRanking(ctx, s.db.SQLWithContext(ctx), exclude, 2*n)
	if err != nil {
		log.Warn("new user candidates failed", "error", err)
		return []types.ScoredMovie{}
	}

	now := s.now()
	return engine.ScoreCandidates(candidates, n, func(movie types.MovieRecord) float64 {
		return engine.NewUserScore(movie, now, s.rng)
	}, s.rng)
}

// SimilarByMetadata ranks movies sharing a genre with the target by weighted
// genre, director, and lead actor matches.
func (s *KnowledgeService) SimilarByMetadata(ctx context.Context, movieID int, n int) []types.ScoredMovie {
	log := s.log.Function("SimilarByMetadata").TraceFromContext(ctx)
	tx := s.db.SQLWithContext(ctx)

	target, err := s.repos.Movie.GetMovieRecord(ctx, tx, movieID, repositories.CatalogCastLimit)
	if err != nil {
		log.Warn("target movie unavailable", "movieID", movieID, "error", err)
		return []types.ScoredMovie{}
	}

	candidates, err := s.repos.Movie.FindMetadataCandidates(ctx, tx, target.Genres, movieID)
	if err != nil {
		log.Warn("metadata candidates failed", "movieID", movieID, "error", err)
		return []types.ScoredMovie{}
	}

	return engine.SimilarByMetadata(*target, candidates, n, s.rng)
}

func (s *KnowledgeService) declaredPreferences(ctx context.Context, userID int) models.UserPreferences {
	declared, err := s.repos.User.GetPreferences(ctx, s.db.SQLWithContext(ctx), userID)
	if err != nil {
		s.log.Function("declaredPreferences").
			Warn("failed to load declared preferences", "userID", userID, "error", err)
		return models.UserPreferences{}
	}
	if declared == nil {
		return models.UserPreferences{}
	}
	return *declared
}

func (s *KnowledgeService) preferredGenres(
	ctx context.Context,
	userID int,
	declared models.UserPreferences,
) []string {
	tx := s.db.SQLWithContext(ctx)

	top, err := s.repos.GenrePreference.GetTopGenres(ctx, tx, userID, repositories.DefaultTopGenres)
	if err != nil {
		s.log.Function("preferredGenres").
			Warn("failed to load genre preferences", "userID", userID, "error", err)
	}
	if len(top) > 0 {
		return lo.Map(top, func(pref models.GenrePreference, _ int) string { return pref.GenreName })
	}
	return lo.Compact([]string(declared.Genres))
}
