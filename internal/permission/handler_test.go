package permission

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"todo-backend/internal/auth"
	"todo-backend/internal/authz"
	"todo-backend/internal/web"
)

// testApp wires the handlers behind a stub middleware that injects the given
// auth context. A nil store is fine for the scope-gate paths: they must
// reject before any data access.
func testApp(a *auth.AuthContext) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler})
	inject := func(c *fiber.Ctx) error {
		c.Locals("auth", a)
		return c.Next()
	}
	RegisterRoutes(app, NewHandler(nil), inject)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestHandlers_RequireAllScope(t *testing.T) {
	own := &auth.AuthContext{UserID: "u1", Role: authz.RoleUser, Scope: authz.ScopeOwn}
	app := testApp(own)

	cases := []struct {
		method, path string
	}{
		{"GET", "/permissions/list"},
		{"PATCH", "/permissions/user/3f2504e0-4f89-41d3-9a0c-0305e82c3301"},
		{"PATCH", "/permissions/role/user"},
	}
	for _, tc := range cases {
		resp := doRequest(t, app, tc.method, tc.path, `{}`)
		if resp.StatusCode != 403 {
			t.Fatalf("%s %s: expected 403 for own-scoped caller, got %d", tc.method, tc.path, resp.StatusCode)
		}
		raw, _ := io.ReadAll(resp.Body)
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("parse body: %v", err)
		}
		if body["success"] != false {
			t.Fatalf("expected success=false envelope, got %v", body)
		}
	}
}

func TestUpdateUser_Validation(t *testing.T) {
	admin := &auth.AuthContext{UserID: "root", Role: authz.RoleSuperadmin, Scope: authz.ScopeAll}
	app := testApp(admin)

	// Invalid user ID
	resp := doRequest(t, app, "PATCH", "/permissions/user/not-a-uuid",
		`{"role":"user","permissions":[]}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for invalid user id, got %d", resp.StatusCode)
	}

	// Missing role / permissions
	resp = doRequest(t, app, "PATCH", "/permissions/user/3f2504e0-4f89-41d3-9a0c-0305e82c3301", `{}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for missing fields, got %d", resp.StatusCode)
	}

	// Unknown role
	resp = doRequest(t, app, "PATCH", "/permissions/user/3f2504e0-4f89-41d3-9a0c-0305e82c3301",
		`{"role":"owner","permissions":[]}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for unknown role, got %d", resp.StatusCode)
	}

	// Invalid entry method
	resp = doRequest(t, app, "PATCH", "/permissions/user/3f2504e0-4f89-41d3-9a0c-0305e82c3301",
		`{"role":"user","permissions":[{"method":"PUT","path":"/todo","isEnabled":true,"scope":"own"}]}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for invalid entry method, got %d", resp.StatusCode)
	}
}

func TestUpdateRole_Validation(t *testing.T) {
	admin := &auth.AuthContext{UserID: "root", Role: authz.RoleSuperadmin, Scope: authz.ScopeAll}
	app := testApp(admin)

	// Missing method/path
	resp := doRequest(t, app, "PATCH", "/permissions/role/user", `{"isEnabled":false}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for missing method/path, got %d", resp.StatusCode)
	}

	// Empty patch
	resp = doRequest(t, app, "PATCH", "/permissions/role/user",
		`{"method":"GET","path":"/todo/list"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for empty patch, got %d", resp.StatusCode)
	}

	// Invalid scope value
	resp = doRequest(t, app, "PATCH", "/permissions/role/user",
		`{"method":"GET","path":"/todo/list","scope":"global"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400 for invalid scope, got %d", resp.StatusCode)
	}
}
