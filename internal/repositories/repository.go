package repositories

import (
	"movierec/internal/database"
)

type Repository struct {
	User            UserRepository
	Movie           MovieRepository
	Rating          RatingRepository
	Activity        ActivityRepository
	GenrePreference GenrePreferenceRepository
	Recommendation  RecommendationRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:            NewUserRepository(),
		Movie:           NewMovieRepository(),
		Rating:          NewRatingRepository(),
		Activity:        NewActivityRepository(),
		GenrePreference: NewGenrePreferenceRepository(db.Cache.User),
		Recommendation:  NewRecommendationRepository(db.Cache.User),
	}
}
