package handlers

import (
	"errors"
	"movierec/internal/app"

	movieController "movierec/internal/controllers/movies"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type MovieHandler struct {
	Handler
	movieController movieController.MovieControllerInterface
}

func NewMovieHandler(app app.App, router fiber.Router) *MovieHandler {
	log := logger.New("handlers").File("movie_handler")
	return &MovieHandler{
		movieController: app.Controllers.Movie,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *MovieHandler) Register() {
	movies := h.router.Group("/movies")
	movies.Post("/:id/actions", h.recordAction)
}

func (h *MovieHandler) recordAction(c *fiber.Ctx) error {
	log := h.log.Function("recordAction")

	movieID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	var request movieController.ActionRequest
	if err := c.BodyParser(&request); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	if err := h.movieController.RecordAction(c.UserContext(), movieID, request); err != nil {
		if errors.Is(err, movieController.ErrInvalidAction) {
			return badRequest(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record action",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"movieId": movieID,
		"action":  request.Action,
	})
}
