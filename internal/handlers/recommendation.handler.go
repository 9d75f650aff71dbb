package handlers

import (
	"errors"
	"movierec/internal/app"

	recommendationController "movierec/internal/controllers/recommendation"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type RecommendationHandler struct {
	Handler
	recommendationController recommendationController.RecommendationControllerInterface
}

func NewRecommendationHandler(app app.App, router fiber.Router) *RecommendationHandler {
	log := logger.New("handlers").File("recommendation_handler")
	return &RecommendationHandler{
		recommendationController: app.Controllers.Recommendation,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecommendationHandler) Register() {
	users := h.router.Group("/users")
	users.Get("/:id/recommendations", h.getRecommendations)

	movies := h.router.Group("/movies")
	movies.Get("/popular", h.getPopular)
	movies.Get("/:id/similar", h.getSimilar)
	movies.Get("/:id/metadata-similar", h.getMetadataSimilar)
}

func (h *RecommendationHandler) getRecommendations(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	exclude, err := parseExclude(c)
	if err != nil {
		return badRequest(c, err)
	}

	ids, err := h.recommendationController.GetRecommendations(
		c.UserContext(),
		userID,
		c.QueryInt("n", recommendationController.DefaultLimit),
		c.QueryBool("refresh", false),
		exclude,
	)
	if err != nil {
		return h.limitError(c, err)
	}

	return c.JSON(fiber.Map{
		"userId":   userID,
		"movieIds": ids,
	})
}

func (h *RecommendationHandler) getPopular(c *fiber.Ctx) error {
	ids, err := h.recommendationController.GetPopular(
		c.UserContext(),
		c.QueryInt("n", recommendationController.DefaultLimit),
	)
	if err != nil {
		return h.limitError(c, err)
	}

	return c.JSON(fiber.Map{"movieIds": ids})
}

func (h *RecommendationHandler) getSimilar(c *fiber.Ctx) error {
	movieID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	exclude, err := parseExclude(c)
	if err != nil {
		return badRequest(c, err)
	}

	similar, err := h.recommendationController.GetSimilarMovies(
		c.UserContext(),
		movieID,
		c.QueryInt("n", recommendationController.DefaultLimit),
		exclude,
	)
	if err != nil {
		return h.limitError(c, err)
	}

	return c.JSON(fiber.Map{
		"movieId": movieID,
		"similar": similar,
	})
}

func (h *RecommendationHandler) getMetadataSimilar(c *fiber.Ctx) error {
	movieID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	scored, err := h.recommendationController.GetMetadataSimilar(
		c.UserContext(),
		movieID,
		c.QueryInt("n", recommendationController.DefaultLimit),
	)
	if err != nil {
		return h.limitError(c, err)
	}

	return c.JSON(fiber.Map{
		"movieId": movieID,
		"similar": scored,
	})
}

func (h *RecommendationHandler) limitError(c *fiber.Ctx, err error) error {
	if errors.Is(err, recommendationController.ErrInvalidLimit) {
		return badRequest(c, err)
	}
	h.log.Function("limitError").Er("recommendation request failed", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to get recommendations",
	})
}
