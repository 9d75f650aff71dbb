package services

import (
	"context"
	"movierec/internal/events"
	"movierec/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
)

const movieActionTimeout = 30 * time.Second

// MovieActionService publishes user actions on movies and applies them when
// they arrive back from the bus.
type MovieActionService struct {
	eventBus    *events.EventBus
	popularity  *PopularityService
	preferences *GenrePreferenceService
	log         logger.Logger
}

func NewMovieActionService(
	eventBus *events.EventBus,
	popularity *PopularityService,
	preferences *GenrePreferenceService,
) *MovieActionService {
	return &MovieActionService{
		eventBus:    eventBus,
		popularity:  popularity,
		preferences: preferences,
		log:         logger.New("MovieActionService"),
	}
}

func (s *MovieActionService) Publish(userID *int, action events.MovieAction) error {
	if action.Weight <= 0 {
		action.Weight = 1
	}
	return s.eventBus.PublishMovieAction(userID, action)
}

func (s *MovieActionService) RegisterHandlers() error {
	return s.eventBus.Subscribe(events.MOVIE_ACTIONS_CHANNEL, s.Handle)
}

// Handle applies the realtime popularity bump and, for ratings, the incremental
// genre preference update.
func (s *MovieActionService) Handle(event events.Event) error {
	log := s.log.Function("Handle")

	if event.Type != events.MOVIE_ACTION {
		return nil
	}

	action, err := events.DecodeMovieAction(event)
	if err != nil {
		return log.Err("failed to decode movie action", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(logger.ContextWithTraceID(context.Background(), event.ID), movieActionTimeout)
	defer cancel()

	s.popularity.UpdateMoviePopularityRealtime(ctx, action.MovieID, action.Action, action.Weight)

	if action.Action == types.ActionRate && action.Rating != nil && event.UserID != nil {
		if err := s.preferences.UpdateGenrePreferencesForRating(ctx, *event.UserID, action.MovieID, *action.Rating); err != nil {
			return log.Err("failed to update genre preferences", err, "userID", *event.UserID, "movieID", action.MovieID)
		}
	}

	return nil
}
