package api

import (
	"log/slog"

	"assetsvc/internal/model"
	"assetsvc/internal/service"
	"assetsvc/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ListAssets(c *fiber.Ctx) error {
	filter := storage.AssetFilter{
		Kind:   model.AssetKind(c.Query("kind")),
		Status: model.AssetStatus(c.Query("status")),
	}
	if raw := c.Query("owner"); raw != "" {
		owner, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  string(service.KindInvalidRequest),
				"detail": "invalid owner id",
			})
		}
		filter.Owner = owner
	}
	if raw := c.Query("group_id"); raw != "" {
		groupID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  string(service.KindInvalidRequest),
				"detail": "invalid group id",
			})
		}
		filter.GroupID = groupID
	}

	assets, err := h.assets.List(c.Context(), filter)
	if err != nil {
		return fail(c, "list_assets", err)
	}
	return c.JSON(assets)
}

func (h *Handler) GetAsset(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, "get_asset", err)
	}

	asset, err := h.assets.Get(c.Context(), id)
	if err != nil {
		return fail(c, "get_asset", err)
	}
	return c.JSON(asset)
}

func (h *Handler) RegisterAsset(c *fiber.Ctx) error {
	var req service.RegisterAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  string(service.KindInvalidRequest),
			"detail": "malformed request body",
		})
	}

	id, err := h.assets.Register(c.Context(), req)
	if err != nil {
		return fail(c, "register_asset", err)
	}

	h.telemetry.RecordAssetRegistration(c.Context(), req.Kind)

	slog.Info("Asset registered", "asset_id", id, "kind", req.Kind)
	return c.JSON(fiber.Map{"id": id})
}

func (h *Handler) UpdateAsset(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, "update_asset", err)
	}

	var req service.UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  string(service.KindInvalidRequest),
			"detail": "malformed request body",
		})
	}

	updated, err := h.assets.Update(c.Context(), id, req)
	if err != nil {
		return fail(c, "update_asset", err)
	}

	slog.Info("Asset updated", "asset_id", updated)
	return c.JSON(fiber.Map{"id": updated})
}

func (h *Handler) RemoveAsset(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, "remove_asset", err)
	}

	deleted, err := h.assets.Remove(c.Context(), id)
	if err != nil {
		return fail(c, "remove_asset", err)
	}

	slog.Info("Asset removed", "asset_id", deleted)
	return c.JSON(fiber.Map{"id": deleted})
}

// pathID parses a UUID path parameter. Malformed ids are invalid
// requests, not lookups of a nonexistent resource.
func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, service.ErrInvalidID
	}
	return id, nil
}
