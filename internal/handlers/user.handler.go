package handlers

import (
	"errors"
	"movierec/internal/app"
	"movierec/internal/types"

	userController "movierec/internal/controllers/users"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Handler
	userController userController.UserControllerInterface
}

func NewUserHandler(app app.App, router fiber.Router) *UserHandler {
	log := logger.New("handlers").File("user_handler")
	return &UserHandler{
		userController: app.Controllers.User,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *UserHandler) Register() {
	users := h.router.Group("/users")
	users.Get("/:id/genres/top", h.getTopGenres)
	users.Get("/:id/preferences", h.getPreferences)
	users.Put("/:id/preferences", h.savePreferences)
	users.Post("/:id/ratings", h.saveRating)
}

func (h *UserHandler) getTopGenres(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	genres, err := h.userController.GetTopGenres(c.UserContext(), userID, c.QueryInt("n", 0))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get top genres",
		})
	}

	return c.JSON(fiber.Map{
		"userId": userID,
		"genres": genres,
	})
}

func (h *UserHandler) getPreferences(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	preferences, err := h.userController.GetPreferences(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get preferences",
		})
	}

	return c.JSON(preferences)
}

func (h *UserHandler) savePreferences(c *fiber.Ctx) error {
	log := h.log.Function("savePreferences")

	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	var declared types.DeclaredPreferences
	if err := c.BodyParser(&declared); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	saved, err := h.userController.SavePreferences(c.UserContext(), userID, declared)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save preferences",
		})
	}

	return c.JSON(saved)
}

func (h *UserHandler) saveRating(c *fiber.Ctx) error {
	log := h.log.Function("saveRating")

	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	var request userController.RatingRequest
	if err := c.BodyParser(&request); err != nil {
		log.Warn("Invalid request body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}
	if request.MovieID <= 0 {
		return badRequest(c, ErrInvalidID)
	}

	rating, err := h.userController.SaveRating(c.UserContext(), userID, request)
	if err != nil {
		switch {
		case errors.Is(err, userController.ErrInvalidRating):
			return badRequest(c, err)
		case errors.Is(err, userController.ErrMovieNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Movie not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save rating",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(rating)
}
