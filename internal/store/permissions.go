package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"todo-backend/internal/authz"
)

// PermissionInfo is a permission record joined with the owning user's
// name and email, for the administration listing.
type PermissionInfo struct {
	UserID    string        `json:"userId"`
	UserName  string        `json:"userName"`
	UserEmail string        `json:"userEmail"`
	Role      authz.Role    `json:"role"`
	Entries   []authz.Entry `json:"permissions"`
}

// EntryPatch is a partial update applied to matching entries during a bulk
// role-level edit. Nil fields are left unchanged.
type EntryPatch struct {
	Enabled *bool        `json:"isEnabled"`
	Scope   *authz.Scope `json:"scope"`
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Enabled == nil && p.Scope == nil
}

// PermissionByUser fetches the permission record for one user.
// Returns ErrNotFound when the user has never been provisioned.
func (s *Store) PermissionByUser(ctx context.Context, userID string) (*authz.Record, error) {
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"SELECT user_id, role, entries FROM permissions WHERE user_id = %s", pb.Add(userID))
	row, err := QueryRow(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	return recordFromRow(row)
}

// CreatePermission provisions a permission record for a newly registered user.
func (s *Store) CreatePermission(ctx context.Context, userID string, role authz.Role, entries []authz.Entry) error {
	if entries == nil {
		entries = []authz.Entry{}
	}
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO permissions (id, user_id, role, entries) VALUES (%s, %s, %s, %s)",
		pb.Add(uuid.New().String()), pb.Add(userID), pb.Add(string(role)), pb.Add(string(entriesJSON)))
	if _, err := Exec(ctx, s.DB, sqlStr, pb.Params()...); err != nil {
		return s.Dialect.MapError(err)
	}
	return nil
}

// ReplacePermission fully replaces a user's role and entries.
// Returns ErrNotFound when the user has no record to replace.
func (s *Store) ReplacePermission(ctx context.Context, userID string, role authz.Role, entries []authz.Entry) (*authz.Record, error) {
	if entries == nil {
		entries = []authz.Entry{}
	}
	entriesJSON, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal entries: %w", err)
	}

	pb := s.Dialect.NewParamBuilder()
	roleP := pb.Add(string(role))
	entriesP := pb.Add(string(entriesJSON))
	userP := pb.Add(userID)
	sqlStr := fmt.Sprintf(
		"UPDATE permissions SET role = %s, entries = %s, updated_at = %s WHERE user_id = %s",
		roleP, entriesP, s.Dialect.NowExpr(), userP)
	n, err := Exec(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return &authz.Record{UserID: userID, Role: role, Entries: entries}, nil
}

// ListPermissions returns every permission record joined with user identity.
func (s *Store) ListPermissions(ctx context.Context) ([]PermissionInfo, error) {
	rows, err := QueryRows(ctx, s.DB,
		`SELECT p.user_id, p.role, p.entries, u.name, u.email
		 FROM permissions p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY u.email`)
	if err != nil {
		return nil, err
	}

	infos := make([]PermissionInfo, 0, len(rows))
	for _, row := range rows {
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, err
		}
		name, _ := row["name"].(string)
		email, _ := row["email"].(string)
		infos = append(infos, PermissionInfo{
			UserID:    rec.UserID,
			UserName:  name,
			UserEmail: email,
			Role:      rec.Role,
			Entries:   rec.Entries,
		})
	}
	return infos, nil
}

// BulkUpdateByRole applies patch to every stored entry equal to
// (method, path) across all permission records with the given role. Matching
// is exact string equality against stored entries, not pattern matching.
// Returns how many records hold the role and how many were changed.
func (s *Store) BulkUpdateByRole(ctx context.Context, role authz.Role, method, path string, patch EntryPatch) (matched, modified int, err error) {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"SELECT user_id, role, entries FROM permissions WHERE role = %s", pb.Add(string(role)))
	rows, err := QueryRows(ctx, tx, sqlStr, pb.Params()...)
	if err != nil {
		return 0, 0, err
	}

	for _, row := range rows {
		matched++
		rec, err := recordFromRow(row)
		if err != nil {
			return 0, 0, err
		}

		entries, changed := patchEntries(rec.Entries, method, path, patch)
		if !changed {
			continue
		}

		entriesJSON, err := json.Marshal(entries)
		if err != nil {
			return 0, 0, fmt.Errorf("marshal entries: %w", err)
		}
		pb := s.Dialect.NewParamBuilder()
		entriesP := pb.Add(string(entriesJSON))
		userP := pb.Add(rec.UserID)
		updateSQL := fmt.Sprintf(
			"UPDATE permissions SET entries = %s, updated_at = %s WHERE user_id = %s",
			entriesP, s.Dialect.NowExpr(), userP)
		if _, err := Exec(ctx, tx, updateSQL, pb.Params()...); err != nil {
			return 0, 0, err
		}
		modified++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return matched, modified, nil
}

// RoleTemplate returns the default entry list stored for a role name, or
// ErrNotFound when no template exists.
func (s *Store) RoleTemplate(ctx context.Context, name authz.Role) ([]authz.Entry, error) {
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT entries FROM roles WHERE name = %s", pb.Add(string(name)))
	row, err := QueryRow(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	return entriesFromValue(row["entries"])
}

// patchEntries applies patch to every entry whose method and path are equal
// to the given pair. Reports whether anything changed.
func patchEntries(entries []authz.Entry, method, path string, patch EntryPatch) ([]authz.Entry, bool) {
	changed := false
	for i, e := range entries {
		if e.Method != method || e.Path != path {
			continue
		}
		if patch.Enabled != nil && e.Enabled != *patch.Enabled {
			entries[i].Enabled = *patch.Enabled
			changed = true
		}
		if patch.Scope != nil && e.Scope != *patch.Scope {
			entries[i].Scope = *patch.Scope
			changed = true
		}
	}
	return entries, changed
}

func recordFromRow(row map[string]any) (*authz.Record, error) {
	userID, _ := row["user_id"].(string)
	roleStr, _ := row["role"].(string)
	entries, err := entriesFromValue(row["entries"])
	if err != nil {
		return nil, err
	}
	return &authz.Record{UserID: userID, Role: authz.Role(roleStr), Entries: entries}, nil
}

func entriesFromValue(v any) ([]authz.Entry, error) {
	var raw []byte
	switch val := v.(type) {
	case string:
		raw = []byte(val)
	case []byte:
		raw = val
	case nil:
		return []authz.Entry{}, nil
	default:
		return nil, errors.New("unexpected entries column type")
	}

	var entries []authz.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal entries: %w", err)
	}
	if entries == nil {
		entries = []authz.Entry{}
	}
	return entries, nil
}
