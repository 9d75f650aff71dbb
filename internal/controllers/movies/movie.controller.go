package movieController

import (
	"context"
	"errors"
	"movierec/internal/database"
	"movierec/internal/events"
	"movierec/internal/repositories"
	"movierec/internal/services"
	"movierec/internal/types"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/samber/lo"
)

var ErrInvalidAction = errors.New("unknown movie action")

var validActions = []types.ActionType{
	types.ActionView,
	types.ActionSearch,
	types.ActionRate,
	types.ActionComment,
	types.ActionLike,
}

type ActionRequest struct {
	Action types.ActionType `json:"action"`
	Weight float64          `json:"weight"`
	UserID *int             `json:"userId,omitempty"`
}

type MovieController struct {
	activityRepo repositories.ActivityRepository
	movieActions *services.MovieActionService
	db           database.DB
	log          logger.Logger
}

type MovieControllerInterface interface {
	RecordAction(ctx context.Context, movieID int, request ActionRequest) error
}

func New(repos repositories.Repository, services services.Service, db database.DB) MovieControllerInterface {
	return &MovieController{
		activityRepo: repos.Activity,
		movieActions: services.MovieActions,
		db:           db,
		log:          logger.New("movieController"),
	}
}

func ValidateAction(request ActionRequest) error {
	if !lo.Contains(validActions, request.Action) {
		return ErrInvalidAction
	}
	if request.Weight < 0 {
		return ErrInvalidAction
	}
	return nil
}

// RecordAction stores a watch for identified views and publishes the action for
// realtime popularity. Ratings go through the ratings endpoint.
func (mc *MovieController) RecordAction(ctx context.Context, movieID int, request ActionRequest) error {
	log := mc.log.Function("RecordAction").TraceFromContext(ctx)

	if err := ValidateAction(request); err != nil {
		return err
	}

	if request.Action == types.ActionView && request.UserID != nil {
		err := mc.activityRepo.RecordWatch(ctx, mc.db.SQLWithContext(ctx), *request.UserID, movieID, time.Now())
		if err != nil {
			log.Warn("failed to record watch", "userID", *request.UserID, "movieID", movieID, "error", err)
		}
	}

	err := mc.movieActions.Publish(request.UserID, events.MovieAction{
		MovieID: movieID,
		Action:  request.Action,
		Weight:  request.Weight,
	})
	if err != nil {
		return log.Err("failed to publish movie action", err, "movieID", movieID, "action", request.Action)
	}

	return nil
}
