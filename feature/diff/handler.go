package diff

import (
	"context"
	"errors"

	"csv-reconciler/core/logger"
	"csv-reconciler/core/utils"
	"csv-reconciler/feature/snapshot"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for diff jobs.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the diff routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/diff")
	group.Post("/", h.HandleSubmit)
	group.Get("/:id", h.HandleGet)
	group.Get("/:id/export", h.HandleExport)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	l := logger.WithRayID(h.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error("Diff request failed", zap.Error(err))
	} else {
		l.Debug("Diff request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  ErrorCode(err),
	})
}

// HandleSubmit starts a reconciliation of two snapshots.
// @Summary Start Diff
// @Description Reconcile two snapshots in the background. Only one job runs at a time.
// @Tags diff
// @Accept json
// @Produce json
// @Param request body diff.Request true "Snapshot paths or object keys"
// @Success 202 {object} diff.Submitted
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "A job is already running"
// @Router /diff [post]
func (h *Handler) HandleSubmit(c *fiber.Ctx) error {
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "code": "bad_request"})
	}

	id, err := h.service.Submit(c.UserContext(), req)
	if err != nil {
		return h.fail(c, err)
	}

	logger.WithRayID(h.logger, c).Info("Diff submitted", zap.String("job_id", id))
	return c.Status(fiber.StatusAccepted).JSON(Submitted{JobID: id})
}

// HandleGet returns the state of a job.
// @Summary Get Diff
// @Description Get the status and, once finished, the combined result of a job.
// @Tags diff
// @Produce json
// @Param id path string true "Job ID"
// @Param wait query bool false "Block until the job finishes"
// @Success 200 {object} diff.JobView
// @Failure 404 {object} map[string]string "Unknown job"
// @Failure 422 {object} diff.JobView "Snapshots cannot be reconciled"
// @Router /diff/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")

	var (
		view JobView
		err  error
	)
	if c.QueryBool("wait") {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.service.cfg.waitTimeout())
		view, err = h.service.Wait(ctx, id)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) {
			view, err = h.service.Get(id)
		}
	} else {
		view, err = h.service.Get(id)
	}
	if err != nil {
		return h.fail(c, err)
	}

	status := fiber.StatusOK
	if view.Status == StatusFailed {
		status = StatusForCode(view.Code)
	}
	return c.Status(status).JSON(view)
}

// HandleExport renders a finished job as a spreadsheet.
// @Summary Export Diff
// @Description Export selected columns of a finished job as xlsx, or upload it to storage.
// @Tags diff
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Job ID"
// @Param columns query string false "Comma separated column indices"
// @Param template query string false "Template name for the result format"
// @Param upload query bool false "Upload to storage instead of downloading"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid selection"
// @Failure 404 {object} map[string]string "Unknown job or template"
// @Failure 409 {object} map[string]string "Job still running"
// @Router /diff/{id}/export [get]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	id := c.Params("id")

	columns, err := utils.ParseIndices(c.Query("columns"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
	}

	data, err := h.service.Export(c.UserContext(), id, columns, c.Query("template"))
	if err != nil {
		return h.fail(c, err)
	}

	if c.QueryBool("upload") {
		key, err := h.service.Upload(c.UserContext(), id, data)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(fiber.Map{"key": key})
	}

	c.Attachment(id + ".xlsx")
	c.Set(fiber.HeaderContentType, snapshot.XLSXContentType)
	return c.Send(data)
}
