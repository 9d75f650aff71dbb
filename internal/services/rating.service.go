package services

import (
	"context"
	"movierec/internal/database"
	"movierec/internal/events"
	"movierec/internal/models"
	"movierec/internal/repositories"
	"movierec/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

type RatingService struct {
	db      database.DB
	repos   repositories.Repository
	actions *MovieActionService
	log     logger.Logger
}

func NewRatingService(db database.DB, repos repositories.Repository, actions *MovieActionService) *RatingService {
	return &RatingService{
		db:      db,
		repos:   repos,
		actions: actions,
		log:     logger.New("RatingService"),
	}
}

// SaveRating stores the rating, invalidates the user's stored recommendations,
// and publishes a rate action.
func (s *RatingService) SaveRating(
	ctx context.Context,
	userID int,
	movieID int,
	value decimal.Decimal,
	comment *string,
) (*models.Rating, error) {
	log := s.log.Function("SaveRating").TraceFromContext(ctx)
	tx := s.db.SQLWithContext(ctx)

	if !models.ValidRating(value) {
		return nil, models.ErrInvalidRating
	}

	if _, err := s.repos.Movie.GetMovieRecord(ctx, tx, movieID, 0); err != nil {
		return nil, err
	}

	rating := models.Rating{UserID: userID, MovieID: movieID, Value: value, Comment: comment}
	if err := s.repos.Rating.Upsert(ctx, tx, &rating); err != nil {
		return nil, err
	}

	if err := s.repos.Recommendation.DeleteForUser(ctx, tx, userID); err != nil {
		log.Warn("failed to invalidate stored recommendations", "userID", userID, "error", err)
	}

	ratingValue := value.InexactFloat64()
	err := s.actions.Publish(&userID, events.MovieAction{
		MovieID: movieID,
		Action:  types.ActionRate,
		Weight:  1,
		Rating:  &ratingValue,
	})
	if err != nil {
		log.Warn("failed to publish rate action", "userID", userID, "movieID", movieID, "error", err)
	}

	return &rating, nil
}
