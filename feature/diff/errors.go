package diff

import (
	"errors"

	"csv-reconciler/core/reconcile"
	"csv-reconciler/feature/export"
	"csv-reconciler/feature/snapshot"
	"csv-reconciler/feature/templates"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrJobNotFound is returned for unknown or expired job ids.
	ErrJobNotFound = errors.New("job not found")
	// ErrJobRunning is returned when a finished job is required.
	ErrJobRunning = errors.New("job is still running")
	// ErrJobFailed is returned when exporting a job that has no result.
	ErrJobFailed = errors.New("job failed")
	// ErrStorageDisabled is returned for storage requests without a configured bucket.
	ErrStorageDisabled = errors.New("storage is not enabled")
	// ErrInvalidSource is returned for an unknown request source.
	ErrInvalidSource = errors.New("invalid source")
	// ErrLocalDisabled is returned for local sources when no local root is configured.
	ErrLocalDisabled = errors.New("local sources are not enabled")
	// ErrOutsideRoot is wrapped in a *reconcile.InputError for paths that escape the local root.
	ErrOutsideRoot = errors.New("path is outside the local root")
)

// ErrorCode returns a stable machine readable code for err.
func ErrorCode(err error) string {
	var inputErr *reconcile.InputError
	var columnErr *export.ColumnError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &inputErr):
		return "invalid_input"
	case errors.Is(err, reconcile.ErrRunInProgress):
		return "busy"
	case errors.Is(err, reconcile.ErrBothEmpty):
		return "both_empty"
	case errors.Is(err, reconcile.ErrDifferentFormat):
		return "different_format"
	case errors.Is(err, ErrJobNotFound), errors.Is(err, templates.ErrNotFound), errors.Is(err, snapshot.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, ErrJobRunning):
		return "running"
	case errors.Is(err, ErrJobFailed):
		return "failed"
	case errors.Is(err, ErrStorageDisabled), errors.Is(err, ErrLocalDisabled), errors.Is(err, ErrInvalidSource), errors.Is(err, snapshot.ErrEmptyKey),
		errors.Is(err, export.ErrNoColumns), errors.Is(err, export.ErrNoData), errors.As(err, &columnErr):
		return "bad_request"
	default:
		return "internal"
	}
}

// StatusFor maps an error to an HTTP status code.
func StatusFor(err error) int {
	return StatusForCode(ErrorCode(err))
}

// StatusForCode maps an error code to an HTTP status code.
func StatusForCode(code string) int {
	switch code {
	case "":
		return fiber.StatusOK
	case "invalid_input", "bad_request":
		return fiber.StatusBadRequest
	case "busy", "running":
		return fiber.StatusConflict
	case "both_empty", "different_format", "failed":
		return fiber.StatusUnprocessableEntity
	case "not_found":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
