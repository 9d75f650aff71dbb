package services

import (
	"context"
	"movierec/internal/database"
	"movierec/internal/engine"
	"movierec/internal/models"
	"movierec/internal/repositories"
	"movierec/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GenrePreferenceService struct {
	db          database.DB
	repos       repositories.Repository
	transaction *TransactionService
	log         logger.Logger
}

func NewGenrePreferenceService(
	db database.DB,
	repos repositories.Repository,
	transaction *TransactionService,
) *GenrePreferenceService {
	return &GenrePreferenceService{
		db:          db,
		repos:       repos,
		transaction: transaction,
		log:         logger.New("GenrePreferenceService"),
	}
}

// BuildPreferences computes normalized per-genre scores from a user's ratings.
func BuildPreferences(userID int, ratings []repositories.GenreRating) []models.GenrePreference {
	byGenre := make(map[string][]float64)
	for _, rating := range ratings {
		for _, genre := range rating.Genres {
			byGenre[genre] = append(byGenre[genre], rating.Rating)
		}
	}

	raw := make(map[string]float64, len(byGenre))
	for genre, values := range byGenre {
		raw[genre] = engine.GenreAffinity(values)
	}

	normalized := engine.NormalizeGenreScores(raw)
	preferences := make([]models.GenrePreference, 0, len(normalized))
	for genre, score := range normalized {
		preferences = append(preferences, models.GenrePreference{
			UserID:          userID,
			GenreName:       genre,
			PreferenceScore: score,
		})
	}
	return preferences
}

// UpdateUserGenrePreferences rebuilds a user's genre preferences from scratch.
func (s *GenrePreferenceService) UpdateUserGenrePreferences(ctx context.Context, userID int) error {
	log := s.log.Function("UpdateUserGenrePreferences").TraceFromContext(ctx)

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		ratings, err := s.repos.Rating.GetUserGenreRatings(ctx, tx, userID)
		if err != nil {
			return err
		}

		preferences := BuildPreferences(userID, ratings)
		if err := s.repos.GenrePreference.ReplaceForUser(ctx, tx, userID, preferences); err != nil {
			return err
		}

		log.Debug("Genre preferences rebuilt", "userID", userID, "genres", len(preferences))
		return nil
	})
	if err != nil {
		return err
	}

	s.repos.GenrePreference.ClearTopGenresCache(ctx, userID)
	return nil
}

// UpdateGenrePreferencesForRating blends a single new rating into existing preferences.
func (s *GenrePreferenceService) UpdateGenrePreferencesForRating(
	ctx context.Context,
	userID int,
	movieID int,
	rating float64,
) error {
	log := s.log.Function("UpdateGenrePreferencesForRating").TraceFromContext(ctx)

	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		movie, err := s.repos.Movie.GetMovieRecord(ctx, tx, movieID, 0)
		if err != nil {
			return err
		}
		if len(movie.Genres) == 0 {
			return nil
		}

		existing, err := s.repos.GenrePreference.GetForGenres(ctx, tx, userID, movie.Genres)
		if err != nil {
			return err
		}
		current := make(map[string]float64, len(existing))
		for _, preference := range existing {
			current[preference.GenreName] = preference.PreferenceScore
		}

		for _, genre := range movie.Genres {
			score := models.ClampGenrePreference(rating)
			if old, ok := current[genre]; ok {
				score = engine.IncrementalGenrePreference(old, rating)
			}
			preference := models.GenrePreference{UserID: userID, GenreName: genre, PreferenceScore: score}
			if err := s.repos.GenrePreference.Save(ctx, tx, &preference); err != nil {
				return err
			}
		}

		log.Debug("Genre preferences updated for rating", "userID", userID, "movieID", movieID)
		return nil
	})
	if err != nil {
		return err
	}

	s.repos.GenrePreference.ClearTopGenresCache(ctx, userID)
	return nil
}

func (s *GenrePreferenceService) GetUserTopGenres(
	ctx context.Context,
	userID int,
	n int,
) ([]models.GenrePreference, error) {
	if n <= 0 {
		n = repositories.DefaultTopGenres
	}
	return s.repos.GenrePreference.GetTopGenres(ctx, s.db.SQLWithContext(ctx), userID, n)
}

// TopGenreScores returns the user's top genres keyed by name.
func (s *GenrePreferenceService) TopGenreScores(ctx context.Context, userID int) map[string]float64 {
	top, err := s.GetUserTopGenres(ctx, userID, repositories.DefaultTopGenres)
	if err != nil {
		s.log.Function("TopGenreScores").Warn("failed to load top genres", "userID", userID, "error", err)
		return map[string]float64{}
	}
	scores := make(map[string]float64, len(top))
	for _, preference := range top {
		scores[preference.GenreName] = preference.PreferenceScore
	}
	return scores
}

// RefreshAllUsers rebuilds preferences for every user with ratings, continuing past failures.
func (s *GenrePreferenceService) RefreshAllUsers(ctx context.Context) (int, error) {
	log := s.log.Function("RefreshAllUsers").TraceFromContext(ctx)

	userIDs, err := s.repos.Rating.GetUsersWithRatings(ctx, s.db.SQLWithContext(ctx))
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}
		if err := s.UpdateUserGenrePreferences(ctx, userID); err != nil {
			log.Warn("failed to rebuild genre preferences", "userID", userID, "error", err)
			continue
		}
		updated++
	}

	log.Info("Genre preferences refreshed", "users", len(userIDs), "updated", updated)
	return updated, nil
}

func (s *GenrePreferenceService) SaveDeclaredPreferences(
	ctx context.Context,
	userID int,
	declared types.DeclaredPreferences,
) error {
	preferences := models.UserPreferences{
		UserID:    userID,
		Genres:    datatypes.JSONSlice[string](declared.Genres),
		Directors: datatypes.JSONSlice[string](declared.Directors),
		Actors:    datatypes.JSONSlice[string](declared.Actors),
	}
	return s.repos.User.SavePreferences(ctx, s.db.SQLWithContext(ctx), &preferences)
}

func (s *GenrePreferenceService) GetDeclaredPreferences(
	ctx context.Context,
	userID int,
) (types.DeclaredPreferences, error) {
	preferences, err := s.repos.User.GetPreferences(ctx, s.db.SQLWithContext(ctx), userID)
	if err != nil || preferences == nil {
		return types.DeclaredPreferences{Genres: []string{}, Directors: []string{}, Actors: []string{}}, err
	}
	return types.DeclaredPreferences{
		Genres:    []string(preferences.Genres),
		Directors: []string(preferences.Directors),
		Actors:    []string(preferences.Actors),
	}, nil
}
