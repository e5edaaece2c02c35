package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"todo-backend/internal/authz"
)

// Bootstrap creates the schema and seeds the default role template and the
// initial superadmin account.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.Dialect.TablesSQL()); err != nil {
		return fmt.Errorf("bootstrap tables: %w", err)
	}
	if err := s.seedRoleTemplate(ctx); err != nil {
		return fmt.Errorf("seed role template: %w", err)
	}
	if err := s.seedSuperadmin(ctx); err != nil {
		return fmt.Errorf("seed superadmin: %w", err)
	}
	return nil
}

// seedRoleTemplate stores the default entry list for the "user" role so
// administrators can adjust what new accounts are provisioned with.
func (s *Store) seedRoleTemplate(ctx context.Context) error {
	pb := s.Dialect.NewParamBuilder()
	nameP := pb.Add(string(authz.RoleUser))
	row, err := QueryRow(ctx, s.DB,
		fmt.Sprintf("SELECT COUNT(*) AS n FROM roles WHERE name = %s", nameP), pb.Params()...)
	if err != nil {
		return err
	}
	if count(row["n"]) > 0 {
		return nil
	}

	entriesJSON, err := json.Marshal(authz.DefaultEntries())
	if err != nil {
		return err
	}

	pb = s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("INSERT INTO roles (name, entries) VALUES (%s, %s)",
		pb.Add(string(authz.RoleUser)), pb.Add(string(entriesJSON)))
	_, err = Exec(ctx, s.DB, sqlStr, pb.Params()...)
	return err
}

func (s *Store) seedSuperadmin(ctx context.Context) error {
	row, err := QueryRow(ctx, s.DB, "SELECT COUNT(*) AS n FROM users")
	if err != nil {
		return err
	}
	if count(row["n"]) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userID := uuid.New().String()
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO users (id, name, email, password_hash) VALUES (%s, %s, %s, %s)",
		pb.Add(userID), pb.Add("Admin"), pb.Add("admin@localhost"), pb.Add(string(hash)))
	if _, err := Exec(ctx, s.DB, sqlStr, pb.Params()...); err != nil {
		return err
	}

	pb = s.Dialect.NewParamBuilder()
	sqlStr = fmt.Sprintf(
		"INSERT INTO permissions (id, user_id, role, entries) VALUES (%s, %s, %s, %s)",
		pb.Add(uuid.New().String()), pb.Add(userID), pb.Add(string(authz.RoleSuperadmin)), pb.Add("[]"))
	if _, err := Exec(ctx, s.DB, sqlStr, pb.Params()...); err != nil {
		return err
	}

	log.Println("WARNING: Default superadmin created (admin@localhost / changeme); change the password immediately.")
	return nil
}

func count(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
