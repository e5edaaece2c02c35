// Package authz implements the permission resolution core: per-user
// permission records, route-pattern matching, first-match-wins
// authorization decisions, and scope-based query narrowing.
package authz

import "fmt"

// Role groups users for bulk permission administration.
// RoleSuperadmin bypasses entry evaluation entirely.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleUser       Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Scope is the data-visibility boundary attached to a granted request.
type Scope string

const (
	ScopeOwn Scope = "own"
	ScopeAll Scope = "all"
)

func (s Scope) Valid() bool {
	return s == ScopeOwn || s == ScopeAll
}

// MethodAll matches any HTTP method in an entry.
const MethodAll = "ALL"

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PATCH": true, "DELETE": true, MethodAll: true,
}

// ValidMethod reports whether m is an allowed entry method.
func ValidMethod(m string) bool {
	return validMethods[m]
}

// Entry is a single (method, path-pattern, enabled, scope) authorization rule.
// A disabled entry that matches still terminates the scan and denies.
type Entry struct {
	Method  string `json:"method"`
	Path    string `json:"path"`
	Enabled bool   `json:"isEnabled"`
	Scope   Scope  `json:"scope"`
}

// Record is a user's permission document. Entries order is
// administrator-controlled and load-bearing: reordering changes
// authorization outcomes.
type Record struct {
	UserID  string  `json:"userId"`
	Role    Role    `json:"role"`
	Entries []Entry `json:"permissions"`
}

// ValidateEntries checks method, path, and scope of every entry.
func ValidateEntries(entries []Entry) error {
	for i, e := range entries {
		if !ValidMethod(e.Method) {
			return fmt.Errorf("entry %d: invalid method %q", i, e.Method)
		}
		if e.Path == "" {
			return fmt.Errorf("entry %d: path is required", i)
		}
		if !e.Scope.Valid() {
			return fmt.Errorf("entry %d: invalid scope %q", i, e.Scope)
		}
	}
	return nil
}

// DefaultEntries is the provisioning seed applied when a user registers:
// CRUD on the user's own todos. Returned as a fresh slice so callers can
// mutate it safely.
func DefaultEntries() []Entry {
	return []Entry{
		{Method: "GET", Path: "/todo/list", Enabled: true, Scope: ScopeOwn},
		{Method: "GET", Path: "/todo/:id", Enabled: true, Scope: ScopeOwn},
		{Method: "POST", Path: "/todo", Enabled: true, Scope: ScopeOwn},
		{Method: "PATCH", Path: "/todo/:id", Enabled: true, Scope: ScopeOwn},
		{Method: "DELETE", Path: "/todo/:id", Enabled: true, Scope: ScopeOwn},
		{Method: "POST", Path: "/todo/:id/files", Enabled: true, Scope: ScopeOwn},
		{Method: "GET", Path: "/files/:id", Enabled: true, Scope: ScopeOwn},
		{Method: "DELETE", Path: "/files/:id", Enabled: true, Scope: ScopeOwn},
		{Method: "POST", Path: "/auth/logout", Enabled: true, Scope: ScopeOwn},
	}
}
