package web

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func TestRateLimitByIP(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RateLimitByIP(RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}))
	app.Post("/login", func(c *fiber.Ctx) error {
		return Message(c, "ok")
	})

	status := func() int {
		req, _ := http.NewRequest("POST", "/login", nil)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp.StatusCode
	}

	if s := status(); s != 200 {
		t.Fatalf("expected first request allowed, got %d", s)
	}
	if s := status(); s != 200 {
		t.Fatalf("expected second request allowed, got %d", s)
	}
	if s := status(); s != 429 {
		t.Fatalf("expected third request limited, got %d", s)
	}
}

func TestRateLimit_RetryAfterHeader(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimitByIP(RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req, _ := http.NewRequest("GET", "/", nil)
	if _, err := app.Test(req, -1); err != nil {
		t.Fatalf("request failed: %v", err)
	}

	req, _ = http.NewRequest("GET", "/", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 429 {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
}
