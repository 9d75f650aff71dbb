package services

import (
	"context"
	"movierec/internal/engine"
	"movierec/internal/types"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestKnowledgeService_DeclaredDirectorLoadsCandidateCredits(t *testing.T) {
	ts := newTestServices(t)
	knowledge := NewKnowledgeService(ts.db, ts.repos, engine.NewRandom(3))

	ts.mock.ExpectQuery(`SELECT \* FROM "user_preferences" WHERE user_id = \$1`).
		WithArgs(5, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "genres", "directors", "actors"}).
			AddRow(1, 5, `["Crime"]`, `["Michael Mann"]`, `[]`))
	ts.mock.ExpectQuery(`SELECT \* FROM "user_genre_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "genre_name", "preference_score"}))
	ts.mock.ExpectQuery(`SELECT \* FROM "movies" WHERE \(movies.genres ILIKE \$1\)`).
		WithArgs("%Crime%", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(movieColumns).
			AddRow(12, "Heat", "Crime", releasedIn(1995), 7.9, 6000, 30.0, "").
			AddRow(13, "Ronin", "Crime", releasedIn(1998), 7.2, 2500, 18.0, ""))
	ts.mock.ExpectQuery(`SELECT \* FROM "movies" WHERE movies.id IN \(\$1,\$2\)`).
		WithArgs(12, 13).
		WillReturnRows(sqlmock.NewRows(movieColumns).
			AddRow(12, "Heat", "Crime", releasedIn(1995), 7.9, 6000, 30.0, "").
			AddRow(13, "Ronin", "Crime", releasedIn(1998), 7.2, 2500, 18.0, ""))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_cast"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "cast_order"}))
	ts.mock.ExpectQuery(`SELECT \* FROM "movie_crew"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "movie_id", "person_id", "job"}).
			AddRow(1, 12, 5, "Director").
			AddRow(2, 13, 9, "Director"))
	ts.mock.ExpectQuery(`SELECT \* FROM "people"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(5, "Michael Mann").
			AddRow(9, "John Frankenheimer"))

	recommendations := knowledge.ForUser(context.Background(), 5, 2, nil)

	assert.ElementsMatch(t, []int{12, 13}, types.MovieIDs(recommendations))
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}

func TestKnowledgeService_NoDeclaredPeopleSkipsCredits(t *testing.T) {
	ts := newTestServices(t)
	knowledge := NewKnowledgeService(ts.db, ts.repos, engine.NewRandom(3))

	ts.mock.ExpectQuery(`SELECT \* FROM "user_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}))
	ts.mock.ExpectQuery(`SELECT \* FROM "user_genre_preferences" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "genre_name", "preference_score"}).
			AddRow(1, 5, "Crime", 9.0))
	ts.mock.ExpectQuery(`SELECT \* FROM "movies" WHERE \(movies.genres ILIKE \$1\)`).
		WillReturnRows(sqlmock.NewRows(movieColumns).
			AddRow(12, "Heat", "Crime", releasedIn(1995), 7.9, 6000, 30.0, ""))

	recommendations := knowledge.ForUser(context.Background(), 5, 1, nil)

	assert.Equal(t, []int{12}, types.MovieIDs(recommendations))
	assert.NoError(t, ts.mock.ExpectationsWereMet())
}
