package repositories

import (
	"movierec/internal/models"
	"movierec/internal/types"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Number of billed cast members kept on catalog records.
const (
	CatalogCastLimit = 5
	SimilarCastLimit = 3
)

type ratingRow struct {
	UserID      int
	MovieID     int
	Rating      decimal.Decimal
	Comment     *string
	CreatedAt   time.Time
	Title       string
	ReleaseDate *time.Time
}

func ratingRowToEvent(row ratingRow) types.RatingEvent {
	event := types.RatingEvent{
		UserID:      row.UserID,
		MovieID:     row.MovieID,
		Rating:      row.Rating.InexactFloat64(),
		CreatedAt:   row.CreatedAt,
		Title:       row.Title,
		ReleaseDate: row.ReleaseDate,
	}
	if row.Comment != nil {
		event.Comment = *row.Comment
	}
	return event
}

// MovieToRecord flattens a movie with preloaded crew and cast into the engine shape.
func MovieToRecord(movie models.Movie, castLimit int) types.MovieRecord {
	directors := lo.FilterMap(movie.Crew, func(crew models.MovieCrew, _ int) (types.PersonRef, bool) {
		name := strings.TrimSpace(crew.Person.Name)
		return types.PersonRef{ID: crew.PersonID, Name: name}, crew.Job == models.DirectorJob
	})
	directors = lo.UniqBy(directors, func(person types.PersonRef) int { return person.ID })

	cast := append([]models.MovieCast(nil), movie.Cast...)
	sort.SliceStable(cast, func(i, j int) bool { return cast[i].CastOrder < cast[j].CastOrder })
	cast = lo.Filter(cast, func(member models.MovieCast, _ int) bool { return member.CastOrder < castLimit })
	actors := lo.Map(cast, func(member models.MovieCast, _ int) types.PersonRef {
		return types.PersonRef{ID: member.PersonID, Name: strings.TrimSpace(member.Person.Name)}
	})
	actors = lo.UniqBy(actors, func(person types.PersonRef) int { return person.ID })

	var releaseDate *time.Time
	if movie.ReleaseDate != nil && !movie.ReleaseDate.IsZero() {
		releaseDate = movie.ReleaseDate
	}

	return types.MovieRecord{
		ID:          movie.ID,
		Title:       movie.Title,
		Genres:      movie.GenreList(),
		Directors:   directors,
		Actors:      actors,
		ReleaseDate: releaseDate,
		VoteAverage: movie.VoteAverage,
		VoteCount:   movie.VoteCount,
		Popularity:  movie.Popularity,
		Overview:    movie.Overview,
		PosterPath:  movie.PosterPath,
	}
}

func moviesToRecords(movies []models.Movie, castLimit int) []types.MovieRecord {
	return lo.Map(movies, func(movie models.Movie, _ int) types.MovieRecord {
		return MovieToRecord(movie, castLimit)
	})
}
