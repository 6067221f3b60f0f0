package api

import (
	"log/slog"

	"assetsvc/internal/service"
	"assetsvc/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ListGroups(c *fiber.Ctx) error {
	var filter storage.GroupFilter
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
	if raw := c.Query("delegatee"); raw != "" {
		delegatee, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  string(service.KindInvalidRequest),
				"detail": "invalid delegatee id",
			})
		}
		filter.Delegatee = delegatee
	}

	groups, err := h.groups.List(c.Context(), filter)
	if err != nil {
		return fail(c, "list_groups", err)
	}
	return c.JSON(groups)
}

// GetGroup returns the group including its current delegation status.
func (h *Handler) GetGroup(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, "get_group", err)
	}

	group, err := h.groups.Get(c.Context(), id)
	if err != nil {
		return fail(c, "get_group", err)
	}
	return c.JSON(group)
}

func (h *Handler) RegisterGroup(c *fiber.Ctx) error {
	var req service.RegisterGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  string(service.KindInvalidRequest),
			"detail": "malformed request body",
		})
	}

	id, err := h.groups.Create(c.Context(), req)
	if err != nil {
		return fail(c, "register_group", err)
	}

	slog.Info("Group registered", "group_id", id, "members", len(req.Assets))
	return c.JSON(fiber.Map{"id": id})
}

func (h *Handler) UpdateGroup(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, "update_group", err)
	}

	var req service.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  string(service.KindInvalidRequest),
			"detail": "malformed request body",
		})
	}

	updated, err := h.groups.Update(c.Context(), id, req)
	if err != nil {
		return fail(c, "update_group", err)
	}
	return c.JSON(fiber.Map{"id": updated})
}

func (h *Handler) RemoveGroup(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, "remove_group", err)
	}

	deleted, err := h.groups.Delete(c.Context(), id)
	if err != nil {
		return fail(c, "remove_group", err)
	}

	slog.Info("Group removed", "group_id", deleted)
	return c.JSON(fiber.Map{"id": deleted})
}

func (h *Handler) AddGroupMember(c *fiber.Ctx) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return fail(c, "add_group_member", err)
	}

	var req struct {
		AssetID string `json:"asset_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  string(service.KindInvalidRequest),
			"detail": "malformed request body",
		})
	}
	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return fail(c, "add_group_member", service.ErrInvalidID)
	}

	if err := h.groups.AddMember(c.Context(), groupID, assetID); err != nil {
		return fail(c, "add_group_member", err)
	}

	slog.Info("Group member added", "group_id", groupID, "asset_id", assetID)
	return c.JSON(fiber.Map{"id": groupID})
}

func (h *Handler) RemoveGroupMember(c *fiber.Ctx) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return fail(c, "remove_group_member", err)
	}
	assetID, err := pathID(c, "asset_id")
	if err != nil {
		return fail(c, "remove_group_member", err)
	}

	if err := h.groups.RemoveMember(c.Context(), groupID, assetID); err != nil {
		return fail(c, "remove_group_member", err)
	}

	slog.Info("Group member removed", "group_id", groupID, "asset_id", assetID)
	return c.JSON(fiber.Map{"id": groupID})
}

func (h *Handler) DelegateGroup(c *fiber.Ctx) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return fail(c, "delegate_group", err)
	}

	var req service.DelegateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  string(service.KindInvalidRequest),
			"detail": "malformed request body",
		})
	}

	delegated, err := h.delegations.Delegate(c.Context(), groupID, req)
	if err != nil {
		return fail(c, "delegate_group", err)
	}

	slog.Info("Group delegated", "group_id", delegated, "to_operator", req.ToOperator)
	return c.JSON(fiber.Map{"id": delegated})
}

func (h *Handler) RevokeGroupDelegation(c *fiber.Ctx) error {
	groupID, err := pathID(c, "id")
	if err != nil {
		return fail(c, "revoke_group_delegation", err)
	}

	revoked, err := h.delegations.Revoke(c.Context(), groupID)
	if err != nil {
		return fail(c, "revoke_group_delegation", err)
	}

	slog.Info("Group delegation revoked", "group_id", revoked)
	return c.JSON(fiber.Map{"id": revoked})
}
