package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"todo-backend/internal/authz"
	"todo-backend/internal/config"
	"todo-backend/internal/store"
	"todo-backend/internal/web"
)

// Handler serves the authentication endpoints.
type Handler struct {
	store *store.Store
	cfg   config.Config
}

func NewHandler(s *store.Store, cfg config.Config) *Handler {
	return &Handler{store: s, cfg: cfg}
}

// Register handles POST /auth/register: creates the account, provisions its
// default permission record, and signs the caller in.
func (h *Handler) Register(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.BadRequestError("Invalid request body")
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)
	if body.Name == "" || body.Email == "" || body.Password == "" {
		return web.BadRequestError("Please provide name, email, and password")
	}

	hash, err := HashPassword(body.Password)
	if err != nil {
		return err
	}

	ctx := c.Context()
	user, err := h.store.CreateUser(ctx, body.Name, body.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return web.BadRequestError("Email already in use")
		}
		return err
	}

	if err := h.provision(ctx, user.ID); err != nil {
		return err
	}

	return sendTokenResponse(c, h.cfg, user, fiber.StatusCreated)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.BadRequestError("Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return web.BadRequestError("Please provide email and password")
	}

	user, hash, err := h.store.UserByEmail(c.Context(), body.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.UnauthorizedError("Invalid credentials")
		}
		return err
	}
	if !CheckPassword(body.Password, hash) {
		return web.UnauthorizedError("Invalid credentials")
	}

	return sendTokenResponse(c, h.cfg, user, fiber.StatusOK)
}

// Refresh handles POST /auth/refresh: verifies the refresh cookie and
// rotates both cookies.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	token := c.Cookies(refreshCookie)
	if token == "" {
		return web.ForbiddenError("Not authorized, no refresh token")
	}

	claims, err := ParseToken(token, h.cfg.Auth.RefreshSecret)
	if err != nil {
		return web.ForbiddenError("Not authorized, refresh token failed")
	}

	user, err := h.store.UserByID(c.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.ForbiddenError("User not found")
		}
		return err
	}

	return sendTokenResponse(c, h.cfg, user, fiber.StatusOK)
}

// Logout handles POST /auth/logout (protected): expires both cookies.
func (h *Handler) Logout(c *fiber.Ctx) error {
	clearTokenCookies(c, h.cfg)
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// provision creates the new account's permission record from the stored
// role template, falling back to the built-in default entry list.
func (h *Handler) provision(ctx context.Context, userID string) error {
	entries, err := h.store.RoleTemplate(ctx, authz.RoleUser)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("WARN: role template lookup failed, using defaults: %v", err)
		}
		entries = authz.DefaultEntries()
	}
	return h.store.CreatePermission(ctx, userID, authz.RoleUser, entries)
}

// RegisterRoutes registers the auth endpoints. Login and register sit
// behind the rate limiter; logout requires an authenticated session.
func RegisterRoutes(app *fiber.App, h *Handler, limit fiber.Handler, protect fiber.Handler) {
	grp := app.Group("/auth")
	grp.Post("/register", limit, h.Register)
	grp.Post("/login", limit, h.Login)
	grp.Post("/refresh", h.Refresh)
	grp.Post("/logout", protect, h.Logout)
}
