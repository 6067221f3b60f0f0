package api

import (
	"os"
	"time"

	"assetsvc/internal/monitoring"
	"assetsvc/internal/service"
	"assetsvc/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	assets      *service.AssetService
	groups      *service.GroupService
	delegations *service.DelegationService
	store       storage.Clients
	telemetry   monitoring.Telemetry
}

func NewHandler(assets *service.AssetService, groups *service.GroupService, delegations *service.DelegationService, store storage.Clients, telemetry monitoring.Telemetry) Handler {
	return Handler{assets: assets, groups: groups, delegations: delegations, store: store, telemetry: telemetry}
}

// Health reports whether the storage backend can be reached. Handlers
// depend on backend connectivity, so an unreachable backend degrades
// the whole service to 503.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.store.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "storage backend unreachable",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   os.Getenv("VERSION"),
	})
}
