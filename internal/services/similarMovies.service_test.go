package services

import (
	"context"
	"movierec/internal/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var movieColumns = []string{
	"id", "title", "genres", "release_date", "vote_average", "vote_count", "popularity", "poster_path",
}

func releasedIn(year int) time.Time {
	return time.Date(year, 7, 16, 0, 0, 0, 0, time.UTC)
}

func TestSimilarMoviesService_SharedDirectorIsExplained(t *testing.T) {
	ts := newTestServices(t)
	ts.useSnapshot(nil, nil)

	ts.mock.ExpectQuery(`SELECT \* FROM "movies" WHERE movies.id = \$1`).
		WithArgs(42, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(movieColumns).
			AddRow(42, "Inception", "Science Fiction, Action", releasedIn(2010), 8.4, 30000, 80.0, "/inception.jpg"))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_cast"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "cast_order"}).
			AddRow(1, 42, 70, 0))
	ts.mock.ExpectQuery(`SELECT \* FROM "people"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(70, "Leonardo DiCaprio"))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_crew"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "job"}).
			AddRow(1, 42, 7, "Director"))
	ts.mock.ExpectQuery(`SELECT \* FROM "people"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "Christopher Nolan"))

	ts.mock.ExpectQuery(`SELECT \* FROM "movies" WHERE movies.id NOT IN .*EXISTS \(SELECT 1 FROM movie_crew mc`).
		WillReturnRows(sqlmock.NewRows(movieColumns).
			AddRow(99, "Memento", "Mystery, Thriller", releasedIn(2000), 8.2, 14000, 40.0, "/memento.jpg").
			AddRow(100, "Moon", "Science Fiction, Drama", releasedIn(2009), 7.6, 3600, 15.0, ""))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_cast"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "cast_order"}).
			AddRow(2, 99, 80, 0).
			AddRow(3, 100, 81, 0))
	ts.mock.ExpectQuery(`SELECT \* FROM "people"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(80, "Guy Pearce").
			AddRow(81, "Sam Rockwell"))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_crew"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "job"}).
			AddRow(2, 99, 7, "Director").
			AddRow(3, 100, 8, "Director"))
	ts.mock.ExpectQuery(`SELECT \* FROM "people"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(7, "Christopher Nolan").
			AddRow(8, "Duncan Jones"))

	similar := ts.similar.GetSimilarMovies(context.Background(), 42, 3, nil)

	require.Len(t, similar, 2)
	byID := make(map[int]types.SimilarMovie)
	for _, movie := range similar {
		byID[movie.ID] = movie
	}
	require.Contains(t, byID, 99)
	assert.Equal(t, types.ReasonDirector, byID[99].SimilarityReason.Type)
	assert.Equal(t, []string{"Christopher Nolan"}, byID[99].Directors)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/memento.jpg", byID[99].Image)
	assert.NotEqual(t, types.ReasonDirector, byID[100].SimilarityReason.Type)
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestSimilarMoviesService_UnknownMovieReturnsEmpty(t *testing.T) {
	ts := newTestServices(t)
	ts.useSnapshot(nil, nil)

	ts.mock.ExpectQuery(`SELECT \* FROM "movies" WHERE movies.id = \$1`).
		WillReturnRows(sqlmock.NewRows(movieColumns))

	similar := ts.similar.GetSimilarMovies(context.Background(), 404, 5, nil)

	assert.Empty(t, similar)
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}
