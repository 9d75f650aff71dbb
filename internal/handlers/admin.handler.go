package handlers

import (
	"errors"
	"movierec/internal/app"

	adminController "movierec/internal/controllers/admin"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	adminController adminController.AdminControllerInterface
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		adminController: app.Controllers.Admin,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	admin := h.router.Group("/admin")

	admin.Post("/popularity/recompute", h.recomputePopularity)

	snapshot := admin.Group("/snapshot")
	snapshot.Get("/", h.getSnapshotStatus)
	snapshot.Post("/reload", h.reloadSnapshot)

	jobs := admin.Group("/jobs")
	jobs.Get("/", h.getJobs)
	jobs.Post("/:name/trigger", h.triggerJob)
}

func (h *AdminHandler) recomputePopularity(c *fiber.Ctx) error {
	if err := h.adminController.RecomputePopularity(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Popularity recompute failed",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Popularity recomputed",
	})
}

func (h *AdminHandler) getSnapshotStatus(c *fiber.Ctx) error {
	return c.JSON(h.adminController.GetSnapshotStatus())
}

func (h *AdminHandler) reloadSnapshot(c *fiber.Ctx) error {
	status, err := h.adminController.ReloadSnapshot(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":    "Snapshot reload failed",
			"snapshot": status,
		})
	}

	return c.JSON(status)
}

func (h *AdminHandler) getJobs(c *fiber.Ctx) error {
	return c.JSON(h.adminController.GetJobsStatus())
}

func (h *AdminHandler) triggerJob(c *fiber.Ctx) error {
	name := c.Params("name")

	if err := h.adminController.TriggerJob(c.UserContext(), name); err != nil {
		if errors.Is(err, adminController.ErrJobNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		if errors.Is(err, adminController.ErrJobRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Job already running",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to trigger job",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"job":     name,
	})
}
