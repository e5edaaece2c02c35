// Package todo serves the task CRUD endpoints. Every data access is
// narrowed by the caller's resolved scope: own-scoped callers only ever
// see and modify their own rows.
package todo

import (
	"errors"
	"strings"

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

var sortFields = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"status":    "status",
}

// List handles GET /todo/list with pagination, sorting, and an optional
// status filter.
func (h *Handler) List(c *fiber.Ctx) error {
	a := auth.GetAuth(c)

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 10)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	sortBy, ok := sortFields[c.Query("sortBy", "createdAt")]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if c.Query("order") == "asc" {
		order = "ASC"
	}

	var conds []authz.Cond
	if status := c.Query("status"); status != "" && store.ValidStatus(status) {
		conds = append(conds, authz.Cond{Field: "status", Value: status})
	}
	conds = authz.NarrowScope(a.Scope, a.UserID, conds)

	todos, total, err := h.store.ListTodos(c.Context(), store.TodoListQuery{
		Conds:  conds,
		SortBy: sortBy,
		Order:  order,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return err
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(todos),
		"page":       page,
		"totalPages": totalPages,
		"total":      total,
		"data":       todos,
	})
}

// Details handles GET /todo/:id.
func (h *Handler) Details(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return web.BadRequestError("Invalid Todo ID")
	}

	found, err := h.store.TodoByID(c.Context(), id, a.Conds())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError("Todo", id)
		}
		return err
	}
	return web.OK(c, found)
}

// Create handles POST /todo.
func (h *Handler) Create(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.BadRequestError("Invalid request body")
	}

	title := strings.TrimSpace(body.Title)
	if title == "" {
		return web.BadRequestError("Title is required")
	}

	created, err := h.store.CreateTodo(c.Context(), a.UserID, title, strings.TrimSpace(body.Description))
	if err != nil {
		return err
	}
	return web.Created(c, created)
}

// Update handles PATCH /todo/:id.
func (h *Handler) Update(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return web.BadRequestError("Invalid Todo ID")
	}

	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.BadRequestError("Invalid request body")
	}

	patch := store.TodoPatch{}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			return web.BadRequestError("Title cannot be empty")
		}
		patch.Title = &title
	}
	if body.Description != nil {
		desc := strings.TrimSpace(*body.Description)
		patch.Description = &desc
	}
	if body.Status != nil {
		if !store.ValidStatus(*body.Status) {
			return web.BadRequestError("Invalid status")
		}
		patch.Status = body.Status
	}

	updated, err := h.store.UpdateTodo(c.Context(), id, a.Conds(), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError("Todo", id)
		}
		return err
	}
	return web.OK(c, updated)
}

// Delete handles DELETE /todo/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return web.BadRequestError("Invalid Todo ID")
	}

	if err := h.store.DeleteTodo(c.Context(), id, a.Conds()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError("Todo", id)
		}
		return err
	}
	return web.Message(c, "Todo deleted successfully")
}

// RegisterRoutes registers the todo endpoints behind the protect middleware.
func RegisterRoutes(app *fiber.App, h *Handler, protect fiber.Handler) {
	grp := app.Group("/todo", protect)
	grp.Get("/list", h.List)
	grp.Get("/:id", h.Details)
	grp.Post("/", h.Create)
	grp.Patch("/:id", h.Update)
	grp.Delete("/:id", h.Delete)
}
