// Package permission serves the permission administration endpoints.
// Every operation requires the caller's resolved scope to be "all".
package permission

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"todo-backend/internal/auth"
	"todo-backend/internal/authz"
	"todo-backend/internal/store"
	"todo-backend/internal/web"
)

type Handler struct {
	store *store.Store
}

func NewHandler(s *store.Store) *Handler {
	return &Handler{store: s}
}

func requireAllScope(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	if a == nil || a.Scope != authz.ScopeAll {
		return web.ForbiddenError(`Forbidden: You do not have "all" scope for this resource.`)
	}
	return nil
}

// List handles GET /permissions/list.
func (h *Handler) List(c *fiber.Ctx) error {
	if err := requireAllScope(c); err != nil {
		return err
	}

	infos, err := h.store.ListPermissions(c.Context())
	if err != nil {
		return err
	}
	return web.OK(c, infos)
}

// UpdateUser handles PATCH /permissions/user/:id — a full replace of one
// user's role and entry list.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	if err := requireAllScope(c); err != nil {
		return err
	}

	userID := c.Params("id")
	if _, err := uuid.Parse(userID); err != nil {
		return web.BadRequestError("Invalid user ID.")
	}

	var body struct {
		Role    authz.Role     `json:"role"`
		Entries *[]authz.Entry `json:"permissions"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.BadRequestError("Invalid request body")
	}
	if body.Role == "" || body.Entries == nil {
		return web.BadRequestError(`Missing required fields: "role" and "permissions" array.`)
	}
	if !body.Role.Valid() {
		return web.BadRequestError(fmt.Sprintf("Invalid role %q.", body.Role))
	}
	if err := authz.ValidateEntries(*body.Entries); err != nil {
		return web.BadRequestError(err.Error())
	}

	rec, err := h.store.ReplacePermission(c.Context(), userID, body.Role, *body.Entries)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError("Permission record for user", userID)
		}
		return err
	}
	return web.OK(c, rec)
}

// UpdateRole handles PATCH /permissions/role/:roleName — a bulk edit of one
// (method, path) entry across every record with the given role. The entry is
// matched by exact equality, not pattern matching.
func (h *Handler) UpdateRole(c *fiber.Ctx) error {
	if err := requireAllScope(c); err != nil {
		return err
	}

	roleName := authz.Role(c.Params("roleName"))

	var body struct {
		Method    string       `json:"method"`
		Path      string       `json:"path"`
		IsEnabled *bool        `json:"isEnabled"`
		Scope     *authz.Scope `json:"scope"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.BadRequestError("Invalid request body")
	}
	if body.Method == "" || body.Path == "" {
		return web.BadRequestError(`Missing required fields: "method" and "path".`)
	}

	patch := store.EntryPatch{Enabled: body.IsEnabled, Scope: body.Scope}
	if patch.Empty() {
		return web.BadRequestError(`No updates provided. Must provide "isEnabled" or "scope".`)
	}
	if patch.Scope != nil && !patch.Scope.Valid() {
		return web.BadRequestError(fmt.Sprintf("Invalid scope %q.", *patch.Scope))
	}

	matched, modified, err := h.store.BulkUpdateByRole(c.Context(), roleName, body.Method, body.Path, patch)
	if err != nil {
		return err
	}
	if matched == 0 {
		return web.NewAppError("NOT_FOUND", 404,
			fmt.Sprintf("No users found with role %q.", roleName))
	}

	return web.Message(c, fmt.Sprintf(
		"Permissions updated for %d of %d users with role %q.", modified, matched, roleName))
}

// RegisterRoutes registers the permission administration endpoints behind
// the protect middleware.
func RegisterRoutes(app *fiber.App, h *Handler, protect fiber.Handler) {
	grp := app.Group("/permissions", protect)
	grp.Get("/list", h.List)
	grp.Patch("/user/:id", h.UpdateUser)
	grp.Patch("/role/:roleName", h.UpdateRole)
}
