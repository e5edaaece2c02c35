package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is an account row without the password hash.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUser inserts a new user. Returns ErrUniqueViolation when the email
// is already taken.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	id := uuid.New().String()
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO users (id, name, email, password_hash) VALUES (%s, %s, %s, %s)",
		pb.Add(id), pb.Add(name), pb.Add(email), pb.Add(passwordHash))
	if _, err := Exec(ctx, s.DB, sqlStr, pb.Params()...); err != nil {
		return nil, s.Dialect.MapError(err)
	}
	return s.UserByID(ctx, id)
}

// UserByID fetches a user without the password hash.
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"SELECT id, name, email, created_at, updated_at FROM users WHERE id = %s", pb.Add(id))
	row, err := QueryRow(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	return userFromRow(row), nil
}

// UserByEmail fetches a user along with the stored password hash, for
// credential verification.
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, string, error) {
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"SELECT id, name, email, password_hash, created_at, updated_at FROM users WHERE email = %s",
		pb.Add(email))
	row, err := QueryRow(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, "", err
	}
	hash, _ := row["password_hash"].(string)
	return userFromRow(row), hash, nil
}

func userFromRow(row map[string]any) *User {
	u := &User{}
	u.ID, _ = row["id"].(string)
	u.Name, _ = row["name"].(string)
	u.Email, _ = row["email"].(string)
	u.CreatedAt = timeValue(row["created_at"])
	u.UpdatedAt = timeValue(row["updated_at"])
	return u
}
