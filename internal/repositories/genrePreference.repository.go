package repositories

import (
	"context"
	"errors"
	"movierec/internal/constants"
	"movierec/internal/database"
	"movierec/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTopGenres = 5

type GenrePreferenceRepository interface {
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID int, preferences []models.GenrePreference) error
	GetForGenres(ctx context.Context, tx *gorm.DB, userID int, genres []string) ([]models.GenrePreference, error)
	Save(ctx context.Context, tx *gorm.DB, preference *models.GenrePreference) error
	GetTopGenres(ctx context.Context, tx *gorm.DB, userID int, limit int) ([]models.GenrePreference, error)
	ClearTopGenresCache(ctx context.Context, userID int)
}

type genrePreferenceRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewGenrePreferenceRepository(cache database.CacheClient) GenrePreferenceRepository {
	return &genrePreferenceRepository{
		cache: cache,
		log:   logger.New("genrePreferenceRepository"),
	}
}

func (r *genrePreferenceRepository) ReplaceForUser(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
	preferences []models.GenrePreference,
) error {
	log := r.log.Function("ReplaceForUser")

	if _, err := gorm.G[models.GenrePreference](tx).Where("user_id = ?", userID).Delete(ctx); err != nil {
		return log.Err("failed to clear genre preferences", err, "userID", userID)
	}

	if len(preferences) > 0 {
		if err := gorm.G[models.GenrePreference](tx).CreateInBatches(ctx, &preferences, 100); err != nil {
			return log.Err("failed to insert genre preferences", err, "userID", userID, "count", len(preferences))
		}
	}

	return nil
}

func (r *genrePreferenceRepository) GetForGenres(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
	genres []string,
) ([]models.GenrePreference, error) {
	if len(genres) == 0 {
		return []models.GenrePreference{}, nil
	}

	preferences, err := gorm.G[models.GenrePreference](tx).
		Where("user_id = ? AND genre_name IN ?", userID, genres).
		Find(ctx)
	if err != nil {
		return nil, r.log.Function("GetForGenres").
			Err("failed to get genre preferences", err, "userID", userID)
	}

	return preferences, nil
}

func (r *genrePreferenceRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	preference *models.GenrePreference,
) error {
	err := gorm.G[models.GenrePreference](tx, clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "genre_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"preference_score", "updated_at"}),
	}).Create(ctx, preference)
	if err != nil {
		return r.log.Function("Save").Err(
			"failed to save genre preference",
			err,
			"userID", preference.UserID,
			"genre", preference.GenreName,
		)
	}

	return nil
}

func (r *genrePreferenceRepository) GetTopGenres(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
	limit int,
) ([]models.GenrePreference, error) {
	log := r.log.Function("GetTopGenres")

	if limit <= 0 {
		limit = DefaultTopGenres
	}

	var cached []models.GenrePreference
	if r.cache != nil {
		found, err := database.NewCacheBuilder(r.cache, userID).
			WithContext(ctx).
			WithHash(constants.TopGenresCachePrefix).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get top genres from cache", "userID", userID, "error", err)
		}
		if found && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	preferences, err := gorm.G[models.GenrePreference](tx).
		Where("user_id = ?", userID).
		Order("preference_score DESC").
		Order("genre_name").
		Limit(limit).
		Find(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.GenrePreference{}, nil
		}
		return nil, log.Err("failed to get top genres", err, "userID", userID)
	}

	if r.cache != nil && len(preferences) > 0 {
		err = database.NewCacheBuilder(r.cache, userID).
			WithContext(ctx).
			WithHash(constants.TopGenresCachePrefix).
			WithStruct(preferences).
			WithTTL(constants.TopGenresCacheExpiry).
			Set()
		if err != nil {
			log.Warn("failed to cache top genres", "userID", userID, "error", err)
		}
	}

	return preferences, nil
}

// ClearTopGenresCache must run after the writing transaction commits, or a
// concurrent read can re-cache the old rows.
func (r *genrePreferenceRepository) ClearTopGenresCache(ctx context.Context, userID int) {
	if r.cache == nil {
		return
	}

	err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(constants.TopGenresCachePrefix).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear top genres cache", "userID", userID, "error", err)
	}
}
