package services

import (
	"context"
	"errors"
	"movierec/internal/repositories"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// cacheClearRecorder notes whether the database work had finished when the
// top-genres cache was cleared.
type cacheClearRecorder struct {
	repositories.GenrePreferenceRepository
	mock             sqlmock.Sqlmock
	cleared          []int
	clearedAfterWork bool
}

func (r *cacheClearRecorder) ClearTopGenresCache(ctx context.Context, userID int) {
	r.cleared = append(r.cleared, userID)
	r.clearedAfterWork = r.mock.ExpectationsWereMet() == nil
}

func newRecordingPreferenceService(ts testServices) (*GenrePreferenceService, *cacheClearRecorder) {
	recorder := &cacheClearRecorder{GenrePreferenceRepository: ts.repos.GenrePreference, mock: ts.mock}
	repos := ts.repos
	repos.GenrePreference = recorder
	return NewGenrePreferenceService(ts.db, repos, ts.transaction), recorder
}

func TestGenrePreferenceService_Rebuild_ClearsCacheAfterCommit(t *testing.T) {
	ts := newTestServices(t)
	service, recorder := newRecordingPreferenceService(ts)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery(`FROM .?ratings.? JOIN movies`).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "rating", "genres"}))
	ts.mock.ExpectExec(`DELETE FROM "user_genre_preferences" WHERE user_id = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 3))
	ts.mock.ExpectCommit()

	err := service.UpdateUserGenrePreferences(context.Background(), 4)

	assert.NoError(t, err)
	assert.Equal(t, []int{4}, recorder.cleared)
	assert.True(t, recorder.clearedAfterWork)
}

func TestGenrePreferenceService_Rebuild_FailedCommitKeepsCache(t *testing.T) {
	ts := newTestServices(t)
	service, recorder := newRecordingPreferenceService(ts)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery(`FROM .?ratings.? JOIN movies`).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id", "rating", "genres"}))
	ts.mock.ExpectExec(`DELETE FROM "user_genre_preferences"`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	ts.mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

	err := service.UpdateUserGenrePreferences(context.Background(), 4)

	assert.Error(t, err)
	assert.Empty(t, recorder.cleared)
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestGenrePreferenceService_RatingUpdate_ClearsCacheAfterCommit(t *testing.T) {
	ts := newTestServices(t)
	service, recorder := newRecordingPreferenceService(ts)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery(`SELECT \* FROM "movies" WHERE movies.id = \$1`).
		WillReturnRows(sqlmock.NewRows(movieColumns).
			AddRow(12, "Heat", "Crime", releasedIn(1995), 7.9, 6000, 30.0, ""))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_cast"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "cast_order"}))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_crew"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "job"}))
	ts.mock.ExpectQuery(`SELECT \* FROM "user_genre_preferences" WHERE user_id = \$1 AND genre_name IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "genre_name", "preference_score"}))
	ts.mock.ExpectQuery(`INSERT INTO "user_genre_preferences"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	ts.mock.ExpectCommit()

	err := service.UpdateGenrePreferencesForRating(context.Background(), 4, 12, 9)

	assert.NoError(t, err)
	assert.Equal(t, []int{4}, recorder.cleared)
	assert.True(t, recorder.clearedAfterWork)
}
