package api

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes wires the REST surface onto the app. One route per
// verb/path combination; dispatch only, no logic here.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", h.Health)

	assets := app.Group("/assets")
	assets.Get("/", h.ListAssets)
	assets.Post("/", h.RegisterAsset)
	assets.Get("/:id", h.GetAsset)
	assets.Put("/:id", h.UpdateAsset)
	assets.Delete("/:id", h.RemoveAsset)

	groups := app.Group("/groups")
	groups.Get("/", h.ListGroups)
	groups.Post("/", h.RegisterGroup)
	groups.Get("/:id", h.GetGroup)
	groups.Put("/:id", h.UpdateGroup)
	groups.Delete("/:id", h.RemoveGroup)
	groups.Post("/:id/assets", h.AddGroupMember)
	groups.Delete("/:id/assets/:asset_id", h.RemoveGroupMember)
	groups.Post("/:id/delegate", h.DelegateGroup)
	groups.Post("/:id/revoke", h.RevokeGroupDelegation)
}
