package repositories

import (
	"context"
	"movierec/internal/models"
	"movierec/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GenreRating is one of a user's ratings joined with the rated movie's genres.
type GenreRating struct {
	MovieID int
	Rating  float64
	Genres  []string
}

type RatingRepository interface {
	FetchRatings(ctx context.Context, tx *gorm.DB) ([]types.RatingEvent, error)
	CountAll(ctx context.Context, tx *gorm.DB) (int64, error)
	GetRatedMovieIDs(ctx context.Context, tx *gorm.DB, userID int) ([]int, error)
	GetUserGenreRatings(ctx context.Context, tx *gorm.DB, userID int) ([]GenreRating, error)
	GetUsersWithRatings(ctx context.Context, tx *gorm.DB) ([]int, error)
	Upsert(ctx context.Context, tx *gorm.DB, rating *models.Rating) error
}

type ratingRepository struct {
	log logger.Logger
}

func NewRatingRepository() RatingRepository {
	return &ratingRepository{
		log: logger.New("ratingRepository"),
	}
}

func (r *ratingRepository) FetchRatings(ctx context.Context, tx *gorm.DB) ([]types.RatingEvent, error) {
	log := r.log.Function("FetchRatings")

	var rows []ratingRow
	err := tx.WithContext(ctx).
		Table("ratings").
		Select("ratings.user_id, ratings.movie_id, ratings.rating, ratings.comment, ratings.created_at, movies.title, movies.release_date").
		Joins("JOIN movies ON movies.id = ratings.movie_id AND movies.deleted_at IS NULL").
		Order("ratings.user_id, ratings.movie_id").
		Scan(&rows).Error
	if err != nil {
		return nil, log.Err("failed to fetch ratings", err)
	}

	return lo.Map(rows, func(row ratingRow, _ int) types.RatingEvent {
		return ratingRowToEvent(row)
	}), nil
}

func (r *ratingRepository) CountAll(ctx context.Context, tx *gorm.DB) (int64, error) {
	count, err := gorm.G[models.Rating](tx).Count(ctx, "id")
	if err != nil {
		return 0, r.log.Function("CountAll").Err("failed to count ratings", err)
	}
	return count, nil
}

func (r *ratingRepository) GetRatedMovieIDs(ctx context.Context, tx *gorm.DB, userID int) ([]int, error) {
	var ids []int
	err := tx.WithContext(ctx).
		Model(&models.Rating{}).
		Where("user_id = ?", userID).
		Pluck("movie_id", &ids).Error
	if err != nil {
		return nil, r.log.Function("GetRatedMovieIDs").
			Err("failed to get rated movies", err, "userID", userID)
	}
	return ids, nil
}

func (r *ratingRepository) GetUserGenreRatings(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
) ([]GenreRating, error) {
	log := r.log.Function("GetUserGenreRatings")

	var rows []struct {
		MovieID int
		Rating  float64
		Genres  string
	}
	err := tx.WithContext(ctx).
		Table("ratings").
		Select("ratings.movie_id, ratings.rating::float8 AS rating, movies.genres").
		Joins("JOIN movies ON movies.id = ratings.movie_id AND movies.deleted_at IS NULL").
		Where("ratings.user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, log.Err("failed to get user genre ratings", err, "userID", userID)
	}

	result := make([]GenreRating, 0, len(rows))
	for _, row := range rows {
		movie := models.Movie{Genres: row.Genres}
		result = append(result, GenreRating{
			MovieID: row.MovieID,
			Rating:  row.Rating,
			Genres:  movie.GenreList(),
		})
	}

	return result, nil
}

func (r *ratingRepository) GetUsersWithRatings(ctx context.Context, tx *gorm.DB) ([]int, error) {
	var ids []int
	err := tx.WithContext(ctx).
		Model(&models.Rating{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, r.log.Function("GetUsersWithRatings").Err("failed to list rating users", err)
	}
	return ids, nil
}

func (r *ratingRepository) Upsert(ctx context.Context, tx *gorm.DB, rating *models.Rating) error {
	err := gorm.G[models.Rating](tx, clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(ctx, rating)
	if err != nil {
		return r.log.Function("Upsert").Err(
			"failed to save rating",
			err,
			"userID", rating.UserID,
			"movieID", rating.MovieID,
		)
	}
	return nil
}
