package services

import (
	"context"
	"fmt"
	"movierec/internal/engine"
	"movierec/internal/types"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMovie(id int, genre string, director types.PersonRef) types.MovieRecord {
	released := time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC)
	return types.MovieRecord{
		ID:          id,
		Title:       fmt.Sprintf("Movie %d", id),
		Genres:      []string{genre},
		Directors:   []types.PersonRef{director},
		Actors:      []types.PersonRef{{ID: 2000 + id, Name: fmt.Sprintf("Actor %d", id)}},
		ReleaseDate: &released,
		VoteAverage: 7,
		VoteCount:   120,
		Popularity:  10,
	}
}

func soloDirector(movieID int) types.PersonRef {
	return types.PersonRef{ID: 1000 + movieID, Name: fmt.Sprintf("Director %d", movieID)}
}

func rate(userID int, rating float64, movieIDs ...int) []types.RatingEvent {
	events := make([]types.RatingEvent, 0, len(movieIDs))
	for _, movieID := range movieIDs {
		events = append(events, types.RatingEvent{UserID: userID, MovieID: movieID, Rating: rating})
	}
	return events
}

func ratingsOf(groups ...[]types.RatingEvent) []types.RatingEvent {
	var all []types.RatingEvent
	for _, group := range groups {
		all = append(all, group...)
	}
	return all
}

func expectNoGenrePreferences(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM "user_genre_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "genre_name", "preference_score"}))
}

func TestRecommendationService_Hybrid_ExcludesStoreRatingsMissingFromSnapshot(t *testing.T) {
	ts := newTestServices(t)

	movies := []types.MovieRecord{
		testMovie(1, "Drama", soloDirector(1)),
		testMovie(2, "Action", soloDirector(2)),
		testMovie(3, "Comedy", soloDirector(3)),
		testMovie(4, "Horror", soloDirector(4)),
		testMovie(5, "Western", soloDirector(5)),
	}
	ts.useSnapshot(ratingsOf(rate(1, 8, 1, 3), rate(2, 7, 1, 3)), movies)

	expectNoGenrePreferences(ts.mock)
	ts.mock.ExpectQuery(`SELECT "id" FROM "movies" WHERE vote_count > \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(4).AddRow(5))

	// user 9 rated movie 2 after the snapshot was taken
	recommendations := ts.recommendation.GetHybridRecommendations(context.Background(), 9, 3, []int{2})

	ids := types.MovieIDs(recommendations)
	assert.NotContains(t, ids, 2)
	assert.ElementsMatch(t, []int{4, 5}, ids)
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestRecommendationService_Hybrid_CapsMoviesPerDirector(t *testing.T) {
	ts := newTestServices(t)

	nolan := types.PersonRef{ID: 500, Name: "Christopher Nolan"}
	movies := []types.MovieRecord{
		testMovie(1, "Drama", soloDirector(1)),
		testMovie(2, "Drama", soloDirector(2)),
	}
	for id := 10; id <= 15; id++ {
		genre := "Thriller"
		if id > 12 {
			genre = "Science Fiction"
		}
		movies = append(movies, testMovie(id, genre, nolan))
	}
	nolanIDs := []int{10, 11, 12, 13, 14, 15}
	ts.useSnapshot(ratingsOf(
		rate(1, 9, 1), rate(1, 8, 2),
		rate(2, 9, 1), rate(2, 8, 2), rate(2, 9, nolanIDs...),
		rate(3, 8, 1), rate(3, 9, 2), rate(3, 8, nolanIDs...),
	), movies)

	expectNoGenrePreferences(ts.mock)

	recommendations := ts.recommendation.GetHybridRecommendations(context.Background(), 1, 4, []int{1, 2})

	require.NotEmpty(t, recommendations)
	directed := 0
	for _, recommendation := range recommendations {
		assert.NotContains(t, []int{1, 2}, recommendation.MovieID)
		if movie, ok := ts.snapshot.Current().Movie(recommendation.MovieID); ok &&
			len(movie.Directors) > 0 && movie.Directors[0].ID == nolan.ID {
			directed++
		}
	}
	assert.LessOrEqual(t, directed, engine.MaxPerDirector)
	assert.Len(t, recommendations, engine.MaxPerDirector)
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestRecommendationService_Hybrid_CancelledRequestReturnsEmpty(t *testing.T) {
	ts := newTestServices(t)
	ts.useSnapshot(ratingsOf(rate(1, 9, 1, 2), rate(2, 9, 1, 2, 3)), []types.MovieRecord{
		testMovie(1, "Drama", soloDirector(1)),
		testMovie(2, "Drama", soloDirector(2)),
		testMovie(3, "Drama", soloDirector(3)),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recommendations := ts.recommendation.GetHybridRecommendations(ctx, 1, 3, []int{1, 2})

	assert.Empty(t, recommendations)
}

func TestRecommendationService_ActionFanGetsUnratedRecommendations(t *testing.T) {
	ts := newTestServices(t)

	movies := make([]types.MovieRecord, 0, 10)
	for id := 1; id <= 7; id++ {
		movies = append(movies, testMovie(id, "Action", soloDirector(id)))
	}
	movies = append(movies,
		testMovie(8, "Comedy", soloDirector(8)),
		testMovie(9, "Drama", soloDirector(9)),
		testMovie(10, "Comedy", soloDirector(10)),
	)
	ts.useSnapshot(ratingsOf(
		rate(1, 9, 1, 2, 3),
		rate(2, 9, 1, 2, 3, 4, 5, 6, 7), rate(2, 7, 8, 9, 10),
		rate(3, 8, 1, 2, 4, 5, 8),
	), movies)

	ts.mock.ExpectQuery(`SELECT "movie_id" FROM "ratings" WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"movie_id"}).AddRow(1).AddRow(2).AddRow(3))
	ts.mock.ExpectQuery(`(?i)SELECT count\(.*\) FROM "ratings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(20))
	ts.mock.ExpectQuery(`SELECT \* FROM "user_genre_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "genre_name", "preference_score"}).
			AddRow(1, 1, "Action", 10.0))
	ts.mock.ExpectQuery(`(?i)SELECT count\(.*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	ts.mock.ExpectBegin()
	ts.mock.ExpectQuery(`INSERT INTO "recommendations" .* ON CONFLICT \("user_id","movie_id"\) DO UPDATE SET`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3).AddRow(4).AddRow(5))
	ts.mock.ExpectCommit()

	recommendations := ts.recommendation.GetUserRecommendations(context.Background(), 1, 5)

	ids := types.MovieIDs(recommendations)
	require.Len(t, ids, 5)
	seen := make(map[int]bool)
	for _, id := range ids {
		assert.NotContains(t, []int{1, 2, 3}, id)
		assert.False(t, seen[id], "duplicate movie %d", id)
		seen[id] = true
	}
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}
