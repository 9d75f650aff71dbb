package repositories

import (
	"context"
	"movierec/internal/models"
	"movierec/internal/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestMovieToRecord_NormalizesCredits(t *testing.T) {
	released := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)
	movie := models.Movie{
		BaseModel:   models.BaseModel{ID: 7},
		Title:       "Inception",
		Genres:      "Action, Science Fiction",
		ReleaseDate: &released,
		VoteAverage: 8.4,
		Crew: []models.MovieCrew{
			{PersonID: 1, Job: models.DirectorJob, Person: models.Person{Name: " Christopher Nolan "}},
			{PersonID: 1, Job: models.DirectorJob, Person: models.Person{Name: "Christopher Nolan"}},
			{PersonID: 2, Job: "Producer", Person: models.Person{Name: "Emma Thomas"}},
		},
		Cast: []models.MovieCast{
			{PersonID: 12, CastOrder: 2, Person: models.Person{Name: "Elliot Page"}},
			{PersonID: 10, CastOrder: 0, Person: models.Person{Name: "Leonardo DiCaprio"}},
			{PersonID: 11, CastOrder: 1, Person: models.Person{Name: "Joseph Gordon-Levitt"}},
			{PersonID: 13, CastOrder: 3, Person: models.Person{Name: "Tom Hardy"}},
		},
	}

	record := MovieToRecord(movie, SimilarCastLimit)

	assert.Equal(t, 7, record.ID)
	assert.Equal(t, []string{"Action", "Science Fiction"}, record.Genres)
	assert.Equal(t, []types.PersonRef{{ID: 1, Name: "Christopher Nolan"}}, record.Directors)
	assert.Equal(t, []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"}, record.ActorNames())

	year, ok := record.ReleaseYear()
	assert.True(t, ok)
	assert.Equal(t, 2010, year)
}

func TestMovieToRecord_ZeroReleaseDateIsMissing(t *testing.T) {
	zero := time.Time{}
	record := MovieToRecord(models.Movie{ReleaseDate: &zero}, CatalogCastLimit)

	_, ok := record.ReleaseYear()
	assert.False(t, ok)
	assert.Empty(t, record.Directors)
	assert.Empty(t, record.Actors)
}

func TestGenreMatch(t *testing.T) {
	match, args := genreMatch([]string{"Drama", " ", "Comedy"})

	assert.Equal(t, "(movies.genres ILIKE ? OR movies.genres ILIKE ?)", match)
	assert.Equal(t, []any{"%Drama%", "%Comedy%"}, args)

	match, args = genreMatch(nil)
	assert.Empty(t, match)
	assert.Nil(t, args)
}

func TestMovieRepository_GetIDsFrom_SkipsEmptyExclusions(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewMovieRepository()

	mock.ExpectQuery(`SELECT "id" FROM "movies" WHERE id >= \$1 AND "movies"."deleted_at" IS NULL ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4).AddRow(5))

	ids, err := repo.GetIDsFrom(context.Background(), gormDB, 4, 2, nil)

	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_GetIDsBefore_AppliesExclusions(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewMovieRepository()

	mock.ExpectQuery(`SELECT "id" FROM "movies" WHERE id < \$1 AND id NOT IN \(\$2,\$3\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	ids, err := repo.GetIDsBefore(context.Background(), gormDB, 4, 3, []int{2, 3})

	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_GetIDsFrom_ZeroLimit(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewMovieRepository()

	ids, err := repo.GetIDsFrom(context.Background(), gormDB, 1, 0, nil)

	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_FindGenreCandidates_NoGenres(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewMovieRepository()

	records, err := repo.FindGenreCandidates(context.Background(), gormDB, []string{""}, nil, 10)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_GetPopularIDs(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewMovieRepository()

	mock.ExpectQuery(`SELECT "id" FROM "movies" WHERE vote_count > \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9).AddRow(3))

	ids, err := repo.GetPopularIDs(context.Background(), gormDB, 6)

	require.NoError(t, err)
	assert.Equal(t, []int{9, 3}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetPreferences_NotFound(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(`SELECT \* FROM "user_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))

	preferences, err := repo.GetPreferences(context.Background(), gormDB, 42)

	require.NoError(t, err)
	assert.Nil(t, preferences)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Exists(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewUserRepository()

	mock.ExpectQuery(`(?i)SELECT count\(.*\) FROM "users" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), gormDB, 3)

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_Upsert_Empty(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRecommendationRepository(nil)

	err := repo.Upsert(context.Background(), gormDB, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_Upsert_OnConflict(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRecommendationRepository(nil)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "recommendations" .* ON CONFLICT \("user_id","movie_id"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), gormDB, []models.RecommendationCacheEntry{
		{UserID: 1, MovieID: 10, Score: 4.2, RecommendationType: models.RecommendationTypeHybrid},
		{UserID: 1, MovieID: 11, Score: 3.9, RecommendationType: models.RecommendationTypeHybrid},
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationRepository_GetCached_Truncates(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRecommendationRepository(nil)

	mock.ExpectQuery(`SELECT movie_id, score FROM "recommendations" WHERE user_id = \$1 ORDER BY score DESC`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "score"}).
			AddRow(10, 4.5).
			AddRow(11, 4.1).
			AddRow(12, 3.2))

	scored, err := repo.GetCached(context.Background(), gormDB, 5, 2)

	require.NoError(t, err)
	assert.Equal(t, []types.ScoredMovie{{MovieID: 10, Score: 4.5}, {MovieID: 11, Score: 4.1}}, scored)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRatingRepository_GetUserGenreRatings(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewRatingRepository()

	mock.ExpectQuery(`SELECT ratings.movie_id, ratings.rating::float8 AS rating, movies.genres FROM "ratings" JOIN movies`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "rating", "genres"}).
			AddRow(1, 8.0, "Drama, Crime").
			AddRow(2, 6.5, ""))

	ratings, err := repo.GetUserGenreRatings(context.Background(), gormDB, 2)

	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, []string{"Drama", "Crime"}, ratings[0].Genres)
	assert.Empty(t, ratings[1].Genres)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository_GetPopularityAggregates_ReadsLastInteraction(t *testing.T) {
	gormDB, mock := setupTestDB(t)
	repo := NewActivityRepository()
	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	lastWatched := time.Date(2023, 9, 3, 20, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)last_interactions AS .*COALESCE\(li.last_at, m.created_at\) AS last_interaction`).
		WithArgs(since, since, since, since).
		WillReturnRows(sqlmock.NewRows([]string{
			"movie_id", "base_popularity", "last_interaction",
			"recent_rating_count", "recent_avg_rating", "recent_watch_count",
			"recent_comment_count", "recent_like_count",
		}).AddRow(4, 11.5, lastWatched, 0, 0.0, 0, 0, 0))

	aggregates, err := repo.GetPopularityAggregates(context.Background(), gormDB, since)

	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	require.NotNil(t, aggregates[0].LastInteraction)
	assert.True(t, lastWatched.Equal(*aggregates[0].LastInteraction))
	assert.Equal(t, 11.5, aggregates[0].BasePopularity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
