package recommendationController

import (
	"context"
	"errors"
	"movierec/internal/services"
	"movierec/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

var ErrInvalidLimit = errors.New("limit must be between 1 and 100")

type RecommendationController struct {
	recommendation *services.RecommendationService
	similarMovies  *services.SimilarMoviesService
	knowledge      *services.KnowledgeService
	popular        *services.PopularService
	log            logger.Logger
}

type RecommendationControllerInterface interface {
	GetRecommendations(
		ctx context.Context,
		userID int,
		n int,
		refresh bool,
		excludeIDs []int,
	) ([]int, error)
	GetSimilarMovies(
		ctx context.Context,
		movieID int,
		n int,
		excludeIDs []int,
	) ([]types.SimilarMovie, error)
	GetMetadataSimilar(ctx context.Context, movieID int, n int) ([]types.ScoredMovie, error)
	GetPopular(ctx context.Context, n int) ([]int, error)
}

func New(services services.Service) RecommendationControllerInterface {
	return &RecommendationController{
		recommendation: services.Recommendation,
		similarMovies:  services.SimilarMovies,
		knowledge:      services.Knowledge,
		popular:        services.Popular,
		log:            logger.New("recommendationController"),
	}
}

// ValidateLimit substitutes the default for zero and rejects anything outside [1, MaxLimit].
func ValidateLimit(n int) (int, error) {
	if n == 0 {
		return DefaultLimit, nil
	}
	if n < 0 || n > MaxLimit {
		return 0, ErrInvalidLimit
	}
	return n, nil
}

func (c *RecommendationController) GetRecommendations(
	ctx context.Context,
	userID int,
	n int,
	refresh bool,
	excludeIDs []int,
) ([]int, error) {
	log := c.log.Function("GetRecommendations").TraceFromContext(ctx)

	n, err := ValidateLimit(n)
	if err != nil {
		return nil, err
	}

	ids := c.recommendation.GetRecommendationsForUser(ctx, userID, n, refresh, excludeIDs)
	log.Debug("served recommendations", "userID", userID, "count", len(ids), "refresh", refresh)
	return ids, nil
}

func (c *RecommendationController) GetSimilarMovies(
	ctx context.Context,
	movieID int,
	n int,
	excludeIDs []int,
) ([]types.SimilarMovie, error) {
	n, err := ValidateLimit(n)
	if err != nil {
		return nil, err
	}
	return c.similarMovies.GetSimilarMovies(ctx, movieID, n, excludeIDs), nil
}

func (c *RecommendationController) GetMetadataSimilar(
	ctx context.Context,
	movieID int,
	n int,
) ([]types.ScoredMovie, error) {
	n, err := ValidateLimit(n)
	if err != nil {
		return nil, err
	}
	return c.knowledge.SimilarByMetadata(ctx, movieID, n), nil
}

func (c *RecommendationController) GetPopular(ctx context.Context, n int) ([]int, error) {
	n, err := ValidateLimit(n)
	if err != nil {
		return nil, err
	}
	return c.popular.GetPopularMovies(ctx, n), nil
}
