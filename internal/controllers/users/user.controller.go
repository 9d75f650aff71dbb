package userController

import (
	"context"
	"errors"
	"movierec/internal/models"
	"movierec/internal/repositories"
	"movierec/internal/services"
	"movierec/internal/types"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var (
	ErrMovieNotFound = errors.New("movie not found")
	ErrInvalidRating = models.ErrInvalidRating
)

type RatingRequest struct {
	MovieID int             `json:"movieId"`
	Rating  decimal.Decimal `json:"rating"`
	Comment *string         `json:"comment,omitempty"`
}

type UserController struct {
	genrePreference *services.GenrePreferenceService
	rating          *services.RatingService
	log             logger.Logger
}

type UserControllerInterface interface {
	GetTopGenres(ctx context.Context, userID int, n int) ([]models.GenrePreference, error)
	GetPreferences(ctx context.Context, userID int) (types.DeclaredPreferences, error)
	SavePreferences(
		ctx context.Context,
		userID int,
		declared types.DeclaredPreferences,
	) (types.DeclaredPreferences, error)
	SaveRating(ctx context.Context, userID int, request RatingRequest) (*models.Rating, error)
}

func New(services services.Service) UserControllerInterface {
	return &UserController{
		genrePreference: services.GenrePreference,
		rating:          services.Rating,
		log:             logger.New("userController"),
	}
}

func (uc *UserController) GetTopGenres(
	ctx context.Context,
	userID int,
	n int,
) ([]models.GenrePreference, error) {
	return uc.genrePreference.GetUserTopGenres(ctx, userID, n)
}

func (uc *UserController) GetPreferences(ctx context.Context, userID int) (types.DeclaredPreferences, error) {
	return uc.genrePreference.GetDeclaredPreferences(ctx, userID)
}

func (uc *UserController) SavePreferences(
	ctx context.Context,
	userID int,
	declared types.DeclaredPreferences,
) (types.DeclaredPreferences, error) {
	log := uc.log.Function("SavePreferences").TraceFromContext(ctx)

	cleaned := CleanDeclared(declared)
	if err := uc.genrePreference.SaveDeclaredPreferences(ctx, userID, cleaned); err != nil {
		return types.DeclaredPreferences{}, log.Err("failed to save declared preferences", err, "userID", userID)
	}

	log.Info("declared preferences saved", "userID", userID, "genres", len(cleaned.Genres))
	return cleaned, nil
}

func (uc *UserController) SaveRating(
	ctx context.Context,
	userID int,
	request RatingRequest,
) (*models.Rating, error) {
	log := uc.log.Function("SaveRating").TraceFromContext(ctx)

	if !models.ValidRating(request.Rating) {
		return nil, ErrInvalidRating
	}

	rating, err := uc.rating.SaveRating(ctx, userID, request.MovieID, request.Rating, request.Comment)
	if err != nil {
		if errors.Is(err, repositories.ErrMovieNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, log.Err("failed to save rating", err, "userID", userID, "movieID", request.MovieID)
	}

	return rating, nil
}

// CleanDeclared trims names and drops blanks and duplicates, keeping first-seen order.
func CleanDeclared(declared types.DeclaredPreferences) types.DeclaredPreferences {
	clean := func(values []string) []string {
		trimmed := lo.Map(values, func(value string, _ int) string { return strings.TrimSpace(value) })
		return lo.Uniq(lo.Compact(trimmed))
	}
	return types.DeclaredPreferences{
		Genres:    clean(declared.Genres),
		Directors: clean(declared.Directors),
		Actors:    clean(declared.Actors),
	}
}
