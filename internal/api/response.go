package api

import (
	"log/slog"

	"assetsvc/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusByKind is the response-status contract: every failure kind has
// exactly one HTTP status.
var statusByKind = map[service.Kind]int{
	service.KindInvalidRequest: fiber.StatusBadRequest,
	service.KindNotFound:       fiber.StatusNotFound,
	service.KindConflict:       fiber.StatusConflict,
	service.KindBackendFailure: fiber.StatusInternalServerError,
	service.KindUnavailable:    fiber.StatusServiceUnavailable,
}

// fail classifies the error and writes the stable error body. Errors
// are surfaced, never retried here.
func fail(c *fiber.Ctx, op string, err error) error {
	kind := service.Classify(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "op", op, "kind", kind, "error", err)
	} else {
		slog.Info("Request rejected", "op", op, "kind", kind, "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error":  string(kind),
		"detail": err.Error(),
	})
}
