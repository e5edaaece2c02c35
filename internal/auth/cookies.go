package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"todo-backend/internal/config"
	"todo-backend/internal/store"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"

	// The refresh cookie is only sent to the auth endpoints.
	refreshCookiePath = "/auth"
)

// sendTokenResponse issues fresh access and refresh cookies and responds
// with the user document.
func sendTokenResponse(c *fiber.Ctx, cfg config.Config, user *store.User, status int) error {
	access, err := SignToken(user.ID, cfg.Auth.AccessSecret, cfg.Auth.AccessTokenTTL)
	if err != nil {
		return err
	}
	refresh, err := SignToken(user.ID, cfg.Auth.RefreshSecret, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		return err
	}

	secure := cfg.Server.Production()
	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    access,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(cfg.Auth.AccessTokenTTL.Seconds()),
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    refresh,
		Path:     refreshCookiePath,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		MaxAge:   int(cfg.Auth.RefreshTokenTTL.Seconds()),
	})

	return c.Status(status).JSON(fiber.Map{"success": true, "data": user})
}

// clearTokenCookies expires both auth cookies.
func clearTokenCookies(c *fiber.Ctx, cfg config.Config) {
	secure := cfg.Server.Production()
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  expired,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     refreshCookiePath,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Expires:  expired,
	})
}
