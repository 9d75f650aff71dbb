package repositories

import (
	"context"
	"movierec/internal/constants"
	"movierec/internal/database"
	"movierec/internal/models"
	"movierec/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendationRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, entries []models.RecommendationCacheEntry) error
	GetCached(ctx context.Context, tx *gorm.DB, userID int, limit int) ([]types.ScoredMovie, error)
	DeleteForUser(ctx context.Context, tx *gorm.DB, userID int) error
}

type recommendationRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewRecommendationRepository(cache database.CacheClient) RecommendationRepository {
	return &recommendationRepository{
		cache: cache,
		log:   logger.New("recommendationRepository"),
	}
}

func (r *recommendationRepository) Upsert(
	ctx context.Context,
	tx *gorm.DB,
	entries []models.RecommendationCacheEntry,
) error {
	log := r.log.Function("Upsert")

	if len(entries) == 0 {
		return nil
	}

	err := gorm.G[models.RecommendationCacheEntry](tx, clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"score", "recommendation_type", "created_at", "updated_at"},
		),
	}).CreateInBatches(ctx, &entries, 100)
	if err != nil {
		return log.Err("failed to save recommendations", err, "count", len(entries))
	}

	users := make(map[int]struct{})
	for _, entry := range entries {
		if _, seen := users[entry.UserID]; seen {
			continue
		}
		users[entry.UserID] = struct{}{}
		r.clearCache(ctx, entry.UserID)
	}

	return nil
}

// GetCached returns stored recommendations by descending score.
func (r *recommendationRepository) GetCached(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
	limit int,
) ([]types.ScoredMovie, error) {
	log := r.log.Function("GetCached")

	var cached []types.ScoredMovie
	if r.cache != nil {
		found, err := database.NewCacheBuilder(r.cache, userID).
			WithContext(ctx).
			WithHash(constants.RecommendationCachePrefix).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get recommendations from cache", "userID", userID, "error", err)
		}
		if found {
			return truncateScored(cached, limit), nil
		}
	}

	var scored []types.ScoredMovie
	err := tx.WithContext(ctx).
		Model(&models.RecommendationCacheEntry{}).
		Select("movie_id, score").
		Where("user_id = ?", userID).
		Order("score DESC").
		Order("movie_id").
		Scan(&scored).Error
	if err != nil {
		return nil, log.Err("failed to get stored recommendations", err, "userID", userID)
	}

	if r.cache != nil && len(scored) > 0 {
		err = database.NewCacheBuilder(r.cache, userID).
			WithContext(ctx).
			WithHash(constants.RecommendationCachePrefix).
			WithStruct(scored).
			WithTTL(constants.RecommendationCacheExpiry).
			Set()
		if err != nil {
			log.Warn("failed to cache recommendations", "userID", userID, "error", err)
		}
	}

	return truncateScored(scored, limit), nil
}

func (r *recommendationRepository) DeleteForUser(ctx context.Context, tx *gorm.DB, userID int) error {
	_, err := gorm.G[models.RecommendationCacheEntry](tx).Where("user_id = ?", userID).Delete(ctx)
	if err != nil {
		return r.log.Function("DeleteForUser").
			Err("failed to delete stored recommendations", err, "userID", userID)
	}

	r.clearCache(ctx, userID)
	return nil
}

func (r *recommendationRepository) clearCache(ctx context.Context, userID int) {
	if r.cache == nil {
		return
	}

	err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(constants.RecommendationCachePrefix).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear recommendation cache", "userID", userID, "error", err)
	}
}

func truncateScored(scored []types.ScoredMovie, limit int) []types.ScoredMovie {
	if limit >= 0 && len(scored) > limit {
		return scored[:limit]
	}
	return scored
}
