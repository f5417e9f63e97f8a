package templates

import (
	"errors"
	"strconv"

	"csv-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for templates.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the template routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/templates")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Delete("/:index", h.HandleDelete)
}

// HandleList returns the stored templates.
// @Summary List Templates
// @Description List column-selection templates, optionally only those for one format fingerprint.
// @Tags templates
// @Produce json
// @Param format query string false "Format fingerprint"
// @Success 200 {array} templates.Entry
// @Router /templates [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	if format := c.Query("format"); format != "" {
		return c.JSON(h.store.ForFormat(format))
	}
	return c.JSON(h.store.List())
}

// HandleCreate stores a new template.
// @Summary Create Template
// @Description Save a named column selection for a format fingerprint.
// @Tags templates
// @Accept json
// @Produce json
// @Param template body templates.Template true "Template"
// @Success 201 {object} templates.Entry
// @Failure 400 {object} map[string]string "Invalid template"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /templates [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req Template
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	entry, err := h.store.Add(req.HeaderID, req.Name, req.Indices)
	if err != nil {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to save template", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Template created", zap.String("name", entry.Name), zap.String("format", entry.HeaderID))
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleDelete removes the template at the given position.
// @Summary Delete Template
// @Tags templates
// @Param index path int true "Template position"
// @Success 204
// @Failure 404 {object} map[string]string "Not Found"
// @Router /templates/{index} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "index must be an integer"})
	}

	if err := h.store.RemoveAt(index); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		logger.WithRayID(h.logger, c).Error("Failed to delete template", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
