package repositories

import (
	"context"
	"errors"
	"fmt"
	"movierec/internal/models"
	"movierec/internal/types"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	PopularMinVoteCount = 20
	popularOrder        = "popularity * 0.6 + vote_average * 0.3 + " +
		"(CASE WHEN release_date IS NOT NULL AND CURRENT_DATE - release_date < 180 THEN 1 ELSE 0 END) * 0.1 DESC"
	genrePreferenceOrder = "vote_average * 0.7 + popularity * 0.3 DESC"
	newUserOrder         = "vote_average * popularity DESC"
)

var ErrMovieNotFound = errors.New("movie not found")

type IDBounds struct {
	MinID int
	MaxID int
}

type MovieRepository interface {
	FetchMovieRecords(ctx context.Context, tx *gorm.DB) ([]types.MovieRecord, error)
	GetMovieRecord(ctx context.Context, tx *gorm.DB, movieID int, castLimit int) (*types.MovieRecord, error)
	GetRecordsByIDs(ctx context.Context, tx *gorm.DB, movieIDs []int) ([]types.MovieRecord, error)
	FindSimilarCandidates(
		ctx context.Context,
		tx *gorm.DB,
		target types.MovieRecord,
		excludeIDs []int,
		limit int,
	) ([]types.MovieRecord, error)
	FindGenreCandidates(
		ctx context.Context,
		tx *gorm.DB,
		genres []string,
		excludeIDs []int,
		limit int,
	) ([]types.MovieRecord, error)
	FindByNewUserRanking(
		ctx context.Context,
		tx *gorm.DB,
		excludeIDs []int,
		limit int,
	) ([]types.MovieRecord, error)
	FindMetadataCandidates(
		ctx context.Context,
		tx *gorm.DB,
		genres []string,
		excludeID int,
	) ([]types.MovieRecord, error)
	GetPopularIDs(ctx context.Context, tx *gorm.DB, limit int) ([]int, error)
	GetIDBounds(ctx context.Context, tx *gorm.DB) (IDBounds, error)
	GetIDsFrom(ctx context.Context, tx *gorm.DB, startID int, limit int, excludeIDs []int) ([]int, error)
	GetIDsBefore(ctx context.Context, tx *gorm.DB, startID int, limit int, excludeIDs []int) ([]int, error)
	LockForPopularityUpdate(ctx context.Context, tx *gorm.DB, movieID int) (*models.Movie, error)
	UpdatePopularity(ctx context.Context, tx *gorm.DB, movieID int, popularity float64, updatedAt time.Time) error
}

type movieRepository struct {
	log logger.Logger
}

func NewMovieRepository() MovieRepository {
	return &movieRepository{
		log: logger.New("movieRepository"),
	}
}

func withCredits(query gorm.ChainInterface[models.Movie], castLimit int) gorm.ChainInterface[models.Movie] {
	return query.
		Preload("Crew", func(db gorm.PreloadBuilder) error {
			db.Where("job = ?", models.DirectorJob)
			return nil
		}).
		Preload("Crew.Person", nil).
		Preload("Cast", func(db gorm.PreloadBuilder) error {
			db.Where("cast_order < ?", castLimit).Order("cast_order")
			return nil
		}).
		Preload("Cast.Person", nil)
}

func excludeMovies(query gorm.ChainInterface[models.Movie], excludeIDs []int) gorm.ChainInterface[models.Movie] {
	if len(excludeIDs) == 0 {
		return query
	}
	return query.Where("movies.id NOT IN ?", excludeIDs)
}

// genreMatch builds an OR of case-insensitive substring matches against the genre column.
func genreMatch(genres []string) (string, []any) {
	conditions := make([]string, 0, len(genres))
	args := make([]any, 0, len(genres))
	for _, genre := range genres {
		genre = strings.TrimSpace(genre)
		if genre == "" {
			continue
		}
		conditions = append(conditions, "movies.genres ILIKE ?")
		args = append(args, "%"+genre+"%")
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return "(" + strings.Join(conditions, " OR ") + ")", args
}

func (r *movieRepository) FetchMovieRecords(ctx context.Context, tx *gorm.DB) ([]types.MovieRecord, error) {
	log := r.log.Function("FetchMovieRecords")

	movies, err := withCredits(gorm.G[models.Movie](tx).Order("movies.id"), CatalogCastLimit).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to fetch movie catalog", err)
	}

	return moviesToRecords(movies, CatalogCastLimit), nil
}

func (r *movieRepository) GetMovieRecord(
	ctx context.Context,
	tx *gorm.DB,
	movieID int,
	castLimit int,
) (*types.MovieRecord, error) {
	log := r.log.Function("GetMovieRecord")

	movie, err := withCredits(gorm.G[models.Movie](tx).Where("movies.id = ?", movieID), castLimit).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, log.Err("failed to get movie", err, "movieID", movieID)
	}

	record := MovieToRecord(movie, castLimit)
	return &record, nil
}

func (r *movieRepository) GetRecordsByIDs(
	ctx context.Context,
	tx *gorm.DB,
	movieIDs []int,
) ([]types.MovieRecord, error) {
	if len(movieIDs) == 0 {
		return []types.MovieRecord{}, nil
	}

	movies, err := withCredits(gorm.G[models.Movie](tx).Where("movies.id IN ?", movieIDs), CatalogCastLimit).
		Find(ctx)
	if err != nil {
		return nil, r.log.Function("GetRecordsByIDs").Err("failed to get movies", err, "count", len(movieIDs))
	}

	return moviesToRecords(movies, CatalogCastLimit), nil
}

func (r *movieRepository) FindSimilarCandidates(
	ctx context.Context,
	tx *gorm.DB,
	target types.MovieRecord,
	excludeIDs []int,
	limit int,
) ([]types.MovieRecord, error) {
	log := r.log.Function("FindSimilarCandidates")

	match, args := genreMatch(target.Genres)
	if match == "" {
		match = "TRUE"
	}
	if year, ok := target.ReleaseYear(); ok {
		match += " AND EXTRACT(YEAR FROM movies.release_date) BETWEEN ? AND ?"
		args = append(args, year-2, year+2)
	}
	match = "(" + match + ")"

	directorIDs := make([]int, 0, len(target.Directors))
	for _, director := range target.Directors {
		directorIDs = append(directorIDs, director.ID)
	}

	directorExists := "FALSE"
	var directorArgs []any
	if len(directorIDs) > 0 {
		directorExists = "EXISTS (SELECT 1 FROM movie_crew mc WHERE mc.movie_id = movies.id AND mc.job = ? AND mc.person_id IN ?)"
		directorArgs = []any{models.DirectorJob, directorIDs}
		match += " OR " + directorExists
		args = append(args, directorArgs...)
	}

	query := excludeMovies(gorm.G[models.Movie](tx), append([]int{target.ID}, excludeIDs...)).
		Where(match, args...).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                fmt.Sprintf("%s DESC, movies.vote_average DESC, movies.vote_count DESC", directorExists),
			Vars:               directorArgs,
			WithoutParentheses: true,
		}}).
		Limit(limit)

	movies, err := withCredits(query, SimilarCastLimit).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to find similar candidates", err, "movieID", target.ID)
	}

	return moviesToRecords(movies, SimilarCastLimit), nil
}

func (r *movieRepository) FindGenreCandidates(
	ctx context.Context,
	tx *gorm.DB,
	genres []string,
	excludeIDs []int,
	limit int,
) ([]types.MovieRecord, error) {
	match, args := genreMatch(genres)
	if match == "" {
		return []types.MovieRecord{}, nil
	}

	movies, err := excludeMovies(gorm.G[models.Movie](tx), excludeIDs).
		Where(match, args...).
		Order(genrePreferenceOrder).
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, r.log.Function("FindGenreCandidates").
			Err("failed to find movies by genre", err, "genres", genres)
	}

	return moviesToRecords(movies, 0), nil
}

func (r *movieRepository) FindByNewUserRanking(
	ctx context.Context,
	tx *gorm.DB,
	excludeIDs []int,
	limit int,
) ([]types.MovieRecord, error) {
	movies, err := excludeMovies(gorm.G[models.Movie](tx), excludeIDs).
		Order(newUserOrder).
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, r.log.Function("FindByNewUserRanking").Err("failed to rank movies", err)
	}

	return moviesToRecords(movies, 0), nil
}

func (r *movieRepository) FindMetadataCandidates(
	ctx context.Context,
	tx *gorm.DB,
	genres []string,
	excludeID int,
) ([]types.MovieRecord, error) {
	match, args := genreMatch(genres)
	if match == "" {
		return []types.MovieRecord{}, nil
	}

	query := gorm.G[models.Movie](tx).Where("movies.id <> ?", excludeID).Where(match, args...)
	movies, err := withCredits(query, CatalogCastLimit).Find(ctx)
	if err != nil {
		return nil, r.log.Function("FindMetadataCandidates").
			Err("failed to find metadata candidates", err, "movieID", excludeID)
	}

	return moviesToRecords(movies, CatalogCastLimit), nil
}

func (r *movieRepository) GetPopularIDs(ctx context.Context, tx *gorm.DB, limit int) ([]int, error) {
	var ids []int
	err := tx.WithContext(ctx).
		Model(&models.Movie{}).
		Where("vote_count > ?", PopularMinVoteCount).
		Order(popularOrder).
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, r.log.Function("GetPopularIDs").Err("failed to get popular movies", err)
	}

	return ids, nil
}

func (r *movieRepository) GetIDBounds(ctx context.Context, tx *gorm.DB) (IDBounds, error) {
	var bounds IDBounds
	err := tx.WithContext(ctx).
		Model(&models.Movie{}).
		Select("COALESCE(MIN(id), 0) AS min_id, COALESCE(MAX(id), 0) AS max_id").
		Scan(&bounds).Error
	if err != nil {
		return IDBounds{}, r.log.Function("GetIDBounds").Err("failed to get movie id bounds", err)
	}

	return bounds, nil
}

func (r *movieRepository) GetIDsFrom(
	ctx context.Context,
	tx *gorm.DB,
	startID int,
	limit int,
	excludeIDs []int,
) ([]int, error) {
	return r.pluckIDs(ctx, tx, "id >= ?", startID, limit, excludeIDs)
}

func (r *movieRepository) GetIDsBefore(
	ctx context.Context,
	tx *gorm.DB,
	startID int,
	limit int,
	excludeIDs []int,
) ([]int, error) {
	return r.pluckIDs(ctx, tx, "id < ?", startID, limit, excludeIDs)
}

func (r *movieRepository) pluckIDs(
	ctx context.Context,
	tx *gorm.DB,
	condition string,
	startID int,
	limit int,
	excludeIDs []int,
) ([]int, error) {
	if limit <= 0 {
		return []int{}, nil
	}

	query := tx.WithContext(ctx).Model(&models.Movie{}).Where(condition, startID)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var ids []int
	if err := query.Order("id").Limit(limit).Pluck("id", &ids).Error; err != nil {
		return nil, r.log.Function("pluckIDs").Err("failed to sample movie ids", err, "startID", startID)
	}

	return ids, nil
}

func (r *movieRepository) LockForPopularityUpdate(
	ctx context.Context,
	tx *gorm.DB,
	movieID int,
) (*models.Movie, error) {
	movie, err := gorm.G[models.Movie](tx, clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		Select("id", "popularity", "updated_at").
		Where("id = ?", movieID).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}

	return &movie, nil
}

func (r *movieRepository) UpdatePopularity(
	ctx context.Context,
	tx *gorm.DB,
	movieID int,
	popularity float64,
	updatedAt time.Time,
) error {
	err := tx.WithContext(ctx).
		Model(&models.Movie{}).
		Where("id = ?", movieID).
		UpdateColumns(map[string]any{"popularity": popularity, "updated_at": updatedAt}).Error
	if err != nil {
		return r.log.Function("UpdatePopularity").
			Err("failed to update movie popularity", err, "movieID", movieID)
	}

	return nil
}
