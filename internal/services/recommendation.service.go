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
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/sync/errgroup"
)

const (
	padSpread       = 1.0
	padMinScore     = 5.0
	padMaxScore     = 9.0
	fallbackSpread  = 1.5
	fallbackMinimum = 5.0
	fallbackMaximum = 9.5
)

type RecommendationService struct {
	db           database.DB
	repos        repositories.Repository
	snapshot     *SnapshotService
	knowledge    *KnowledgeService
	popular      *PopularService
	preferences  *GenrePreferenceService
	rng          *engine.Random
	weights      engine.FusionWeights
	randomFactor float64
	log          logger.Logger
}

type RecommendationOptions struct {
	Weights      engine.FusionWeights
	RandomFactor float64
}

func NewRecommendationService(
	db database.DB,
	repos repositories.Repository,
	snapshot *SnapshotService,
	knowledge *KnowledgeService,
	popular *PopularService,
	preferences *GenrePreferenceService,
	rng *engine.Random,
	options RecommendationOptions,
) *RecommendationService {
	return &RecommendationService{
		db:           db,
		repos:        repos,
		snapshot:     snapshot,
		knowledge:    knowledge,
		popular:      popular,
		preferences:  preferences,
		rng:          rng,
		weights:      options.Weights,
		randomFactor: options.RandomFactor,
		log:          logger.New("RecommendationService"),
	}
}

// GetRecommendationsForUser serves from the stored list unless refresh is set or
// nothing is stored. The result never contains an excluded id.
func (s *RecommendationService) GetRecommendationsForUser(
	ctx context.Context,
	userID int,
	n int,
	refresh bool,
	excludeIDs []int,
) []int {
	log := s.log.Function("GetRecommendationsForUser").TraceFromContext(ctx)
	tx := s.db.SQLWithContext(ctx)

	if n <= 0 {
		return []int{}
	}

	excluded := mapset.NewThreadUnsafeSet(excludeIDs...)
	want := n + excluded.Cardinality()

	var ids []int
	if refresh {
		if err := s.repos.Recommendation.DeleteForUser(ctx, tx, userID); err != nil {
			log.Warn("failed to clear stored recommendations", "userID", userID, "error", err)
		}
		ids = types.MovieIDs(s.GetUserRecommendations(ctx, userID, want))
	} else {
		cached, err := s.repos.Recommendation.GetCached(ctx, tx, userID, want)
		if err != nil {
			log.Warn("failed to read stored recommendations", "userID", userID, "error", err)
		}
		ids = types.MovieIDs(cached)
		if len(ids) == 0 {
			ids = types.MovieIDs(s.GetUserRecommendations(ctx, userID, want))
		}
	}

	selected := make([]int, 0, n)
	seen := mapset.NewThreadUnsafeSet[int]()
	for _, id := range ids {
		if excluded.Contains(id) || seen.Contains(id) {
			continue
		}
		seen.Add(id)
		selected = append(selected, id)
	}

	if len(selected) < n {
		skip := append(excluded.ToSlice(), selected...)
		for _, id := range s.popular.GetPopularExcluding(ctx, n-len(selected), skip, userID) {
			if !excluded.Contains(id) && !seen.Contains(id) {
				seen.Add(id)
				selected = append(selected, id)
			}
		}
	}

	if len(selected) > n {
		selected = selected[:n]
	}
	return selected
}

// GetUserRecommendations picks the hybrid or knowledge path, pads with popular
// movies, and stores the result.
func (s *RecommendationService) GetUserRecommendations(
	ctx context.Context,
	userID int,
	n int,
) []types.ScoredMovie {
	log := s.log.Function("GetUserRecommendations").TraceFromContext(ctx)
	tx := s.db.SQLWithContext(ctx)

	s.snapshot.RefreshIfNeeded(ctx)

	rated, err := s.repos.Rating.GetRatedMovieIDs(ctx, tx, userID)
	if err != nil {
		log.Warn("failed to load rated movies, serving popular", "userID", userID, "error", err)
		return s.plainPopular(ctx, n)
	}

	total, err := s.repos.Rating.CountAll(ctx, tx)
	if err != nil {
		log.Warn("failed to count ratings, serving popular", "error", err)
		return s.plainPopular(ctx, n)
	}

	var recommendations []types.ScoredMovie
	recommendationType := models.RecommendationTypeHybrid
	if total == 0 || len(rated) == 0 {
		recommendationType = models.RecommendationTypeKnowledge
		recommendations = s.knowledge.ForUser(ctx, userID, n, rated)
		RecommendationsServedTotal.WithLabelValues("knowledge").Inc()
	} else {
		recommendations = s.GetHybridRecommendations(ctx, userID, n, rated)
		RecommendationsServedTotal.WithLabelValues("hybrid").Inc()
		if len(recommendations) == 0 {
			recommendationType = models.RecommendationTypeKnowledge
			recommendations = s.knowledge.ForUser(ctx, userID, n, rated)
			RecommendationsServedTotal.WithLabelValues("knowledge").Inc()
		}
	}

	if len(recommendations) < n {
		skip := append(types.MovieIDs(recommendations), rated...)
		for _, id := range s.popular.GetPopularExcluding(ctx, n-len(recommendations), skip, userID) {
			recommendations = append(recommendations, types.ScoredMovie{MovieID: id})
		}
	}

	if len(recommendations) == 0 {
		return s.plainPopular(ctx, n)
	}

	if err := s.saveRecommendations(ctx, userID, recommendations, recommendationType); err != nil {
		log.Warn("failed to store recommendations", "userID", userID, "error", err)
	}

	return recommendations
}

// GetHybridRecommendations fuses the three engines and diversifies the result.
// ratedIDs come from the store and cover ratings newer than the snapshot.
func (s *RecommendationService) GetHybridRecommendations(
	ctx context.Context,
	userID int,
	n int,
	ratedIDs []int,
) []types.ScoredMovie {
	log := s.log.Function("GetHybridRecommendations").TraceFromContext(ctx)
	snapshot := s.snapshot.Current()
	genrePrefs := s.preferences.TopGenreScores(ctx, userID)

	var userCF, itemCF, content []types.ScoredMovie
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer observeEngine("user_cf", time.Now())
		if err := groupCtx.Err(); err != nil {
			return err
		}
		userCF = s.userCF(groupCtx, snapshot, userID, n, genrePrefs)
		return nil
	})
	group.Go(func() error {
		defer observeEngine("item_cf", time.Now())
		if err := groupCtx.Err(); err != nil {
			return err
		}
		itemCF = engine.ItemCF(snapshot, userID, n, s.randomFactor, s.rng)
		return nil
	})
	group.Go(func() error {
		defer observeEngine("content", time.Now())
		if err := groupCtx.Err(); err != nil {
			return err
		}
		content = engine.ContentBased(snapshot, userID, n, s.randomFactor, s.rng)
		return nil
	})
	if err := group.Wait(); err != nil {
		log.Warn("hybrid recommendation abandoned", "userID", userID, "error", err)
		return []types.ScoredMovie{}
	}

	rated := mapset.NewThreadUnsafeSet(ratedIDs...)
	for movieID := range snapshot.UserRatings(userID) {
		rated.Add(movieID)
	}

	fused := engine.Fuse(s.weights, userCF, itemCF, content, rated)
	return engine.Diversify(fused, snapshot.Movie, n)
}

// userCF falls back to scored popular movies when there is no model for the user
// and pads short results with popular movies.
func (s *RecommendationService) userCF(
	ctx context.Context,
	snapshot *engine.Snapshot,
	userID int,
	n int,
	genrePrefs map[string]float64,
) []types.ScoredMovie {
	result := engine.UserCF(snapshot, userID, n, genrePrefs, s.rng)
	if result.NoModel {
		return s.popular.PopularFallback(ctx, snapshot, n, fallbackSpread, fallbackMinimum, fallbackMaximum)
	}
	if len(result.Scored) >= n {
		return result.Scored
	}

	skip := types.MovieIDs(result.Scored)
	for movieID := range snapshot.UserRatings(userID) {
		skip = append(skip, movieID)
	}
	scored := result.Scored
	for _, id := range s.popular.GetPopularExcluding(ctx, n-len(scored), skip, userID) {
		movie, ok := snapshot.Movie(id)
		if !ok {
			movie = types.MovieRecord{ID: id}
		}
		scored = append(scored, types.ScoredMovie{
			MovieID: id,
			Score:   engine.PopularFallbackScore(movie, padSpread, padMinScore, padMaxScore, s.rng),
		})
	}
	return scored
}

func (s *RecommendationService) plainPopular(ctx context.Context, n int) []types.ScoredMovie {
	RecommendationsServedTotal.WithLabelValues("popular").Inc()
	ids := s.popular.GetPopularMovies(ctx, n)
	scored := make([]types.ScoredMovie, 0, len(ids))
	for _, id := range ids {
		scored = append(scored, types.ScoredMovie{MovieID: id})
	}
	return scored
}

// saveRecommendations skips users that do not exist.
func (s *RecommendationService) saveRecommendations(
	ctx context.Context,
	userID int,
	recommendations []types.ScoredMovie,
	recommendationType models.RecommendationType,
) error {
	tx := s.db.SQLWithContext(ctx)

	exists, err := s.repos.User.Exists(ctx, tx, userID)
	if err != nil {
		return err
	}
	if !exists {
		s.log.Function("saveRecommendations").Debug("unknown user, not storing", "userID", userID)
		return nil
	}

	now := time.Now()
	entries := make([]models.RecommendationCacheEntry, 0, len(recommendations))
	for _, recommendation := range recommendations {
		entries = append(entries, models.RecommendationCacheEntry{
			BaseRecordModel:    models.BaseRecordModel{CreatedAt: now, UpdatedAt: now},
			UserID:             userID,
			MovieID:            recommendation.MovieID,
			Score:              recommendation.Score,
			RecommendationType: recommendationType,
		})
	}
	return s.repos.Recommendation.Upsert(ctx, tx, entries)
}

func observeEngine(name string, started time.Time) {
	EngineDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
}
