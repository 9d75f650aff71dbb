package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var aggregateColumns = []string{
	"movie_id", "base_popularity", "last_interaction",
	"recent_rating_count", "recent_avg_rating", "recent_watch_count",
	"recent_comment_count", "recent_like_count",
}

func TestPopularityService_Batch_RecomputesEveryMovieInOneTransaction(t *testing.T) {
	ts := newTestServices(t)
	now := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	ts.popularity.now = func() time.Time { return now }

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery(`WITH recent_ratings AS`).
		WillReturnRows(sqlmock.NewRows(aggregateColumns).
			AddRow(1, 10.0, now.AddDate(0, 0, -2), 20, 8.0, 10, 0, 0).
			AddRow(2, 10.0, now.AddDate(0, 0, -150), 0, 0.0, 0, 0, 0))
	ts.mock.ExpectExec(`UPDATE "movies" SET "popularity"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(approximately(12.7), now, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ts.mock.ExpectExec(`UPDATE "movies" SET "popularity"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(approximately(9.0), now, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ts.mock.ExpectCommit()

	assert.True(t, ts.popularity.UpdateMoviePopularity(context.Background()))
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestPopularityService_Batch_IdleMovieKeepsFloorWhenPenaltyDisabled(t *testing.T) {
	ts := newTestServices(t)
	now := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	ts.popularity.now = func() time.Time { return now }
	ts.popularity.penalize = false

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery(`WITH recent_ratings AS`).
		WillReturnRows(sqlmock.NewRows(aggregateColumns).
			AddRow(2, 10.0, now.AddDate(0, 0, -150), 0, 0.0, 0, 0, 0))
	ts.mock.ExpectExec(`UPDATE "movies" SET "popularity"=\$1`).
		WithArgs(approximately(7.0), now, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ts.mock.ExpectCommit()

	assert.True(t, ts.popularity.UpdateMoviePopularity(context.Background()))
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestPopularityService_Batch_FailedUpdateRollsBackEverything(t *testing.T) {
	ts := newTestServices(t)

	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery(`WITH recent_ratings AS`).
		WillReturnRows(sqlmock.NewRows(aggregateColumns).
			AddRow(1, 10.0, nil, 3, 7.0, 1, 0, 0).
			AddRow(2, 5.0, nil, 1, 6.0, 0, 0, 0))
	ts.mock.ExpectExec(`UPDATE "movies" SET "popularity"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ts.mock.ExpectExec(`UPDATE "movies" SET "popularity"`).
		WillReturnError(errors.New("deadlock detected"))
	ts.mock.ExpectRollback()

	assert.False(t, ts.popularity.UpdateMoviePopularity(context.Background()))
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}
