package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"todo-backend/internal/authz"
	"todo-backend/internal/store"
	"todo-backend/internal/web"
)

// AuthContext is the immutable per-request authorization context attached
// after a successful permission resolution. Scope is taken from the
// matching permission entry (or "all" for superadmin).
type AuthContext struct {
	UserID string
	Name   string
	Email  string
	Role   authz.Role
	Scope  authz.Scope
}

// Conds returns the scope-narrowing conditions for this caller.
func (a *AuthContext) Conds() []authz.Cond {
	return authz.NarrowScope(a.Scope, a.UserID, nil)
}

// UserSource resolves an authenticated identity to a user document.
type UserSource interface {
	UserByID(ctx context.Context, id string) (*store.User, error)
}

// RecordSource fetches a user's permission record.
type RecordSource interface {
	PermissionByUser(ctx context.Context, userID string) (*authz.Record, error)
}

const localsKey = "auth"

// Protect returns the session + authorization middleware: it resolves the
// caller's identity from the access cookie, fetches the permission record,
// and resolves whether the caller may invoke this method on this path.
// Denials become 403, identity failures 401, collaborator faults 500.
func Protect(users UserSource, records RecordSource, accessSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(accessCookie)
		if token == "" {
			return web.UnauthorizedError("Not authorized, no token")
		}

		claims, err := ParseToken(token, accessSecret)
		if err != nil {
			return web.UnauthorizedError("Not authorized, token failed")
		}

		ctx := c.Context()
		user, err := users.UserByID(ctx, claims.Subject)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return web.UnauthorizedError("Not authorized, user not found")
			}
			return fmt.Errorf("resolve user: %w", err)
		}

		rec, err := records.PermissionByUser(ctx, user.ID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("fetch permission record: %w", err)
			}
			rec = nil // unprovisioned: resolver denies
		}

		method := c.Method()
		path := c.Path()
		decision := authz.Resolve(rec, method, path)
		if !decision.Allowed {
			return web.ForbiddenError(decision.Message(method, path))
		}

		// An allow decision implies a non-nil record.
		c.Locals(localsKey, &AuthContext{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   rec.Role,
			Scope:  decision.Scope,
		})
		return c.Next()
	}
}

// GetAuth extracts the AuthContext from a Fiber context.
func GetAuth(c *fiber.Ctx) *AuthContext {
	a, _ := c.Locals(localsKey).(*AuthContext)
	return a
}
