package history

import (
	"csv-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the run history.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/history", h.HandleList)
}

// HandleList returns the most recent runs.
// @Summary List Runs
// @Description List the most recent reconciliation runs, newest first.
// @Tags history
// @Produce json
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} history.Run
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", DefaultLimit)

	runs, err := h.repo.List(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if runs == nil {
		runs = []Run{}
	}
	return c.JSON(runs)
}
