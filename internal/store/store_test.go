package store

import (
	"context"
	"testing"
	"time"

	"todo-backend/internal/config"
)

// newSQLiteStore opens a throwaway on-disk sqlite store and bootstraps the
// schema, the role template, and the seed admin.
func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := New(ctx, config.DatabaseConfig{Driver: "sqlite", Path: t.TempDir(), Name: "test"})
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(s.Close)
	if err := s.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return s
}

func TestSQLiteTimestampsNonZero(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "Dana", "dana@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatalf("user timestamps not populated: %+v", u)
	}

	todo, err := s.CreateTodo(ctx, u.ID, "Write report", "quarterly numbers")
	if err != nil {
		t.Fatalf("create todo: %v", err)
	}
	if todo.Title != "Write report" {
		t.Fatalf("title mangled: %q", todo.Title)
	}
	if todo.CreatedAt.IsZero() || todo.UpdatedAt.IsZero() {
		t.Fatalf("todo timestamps not populated: %+v", todo)
	}

	f := &File{
		ID:          "00000000-0000-0000-0000-000000000001",
		TodoID:      todo.ID,
		UserID:      u.ID,
		Filename:    "report.txt",
		StoragePath: "p",
		MimeType:    "text/plain",
		Size:        3,
	}
	if err := s.CreateFile(ctx, f); err != nil {
		t.Fatalf("create file: %v", err)
	}
	got, err := s.FileByID(ctx, f.ID, nil)
	if err != nil {
		t.Fatalf("file by id: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("file timestamp not populated: %+v", got)
	}
}

func TestTimeValue(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	if got := timeValue(now); !got.Equal(now) {
		t.Fatalf("time.Time passthrough: got %v", got)
	}

	got := timeValue("2024-03-01 10:20:30")
	if !got.Equal(now) {
		t.Fatalf("sqlite text timestamp: got %v", got)
	}

	got = timeValue("2024-03-01T10:20:30Z")
	if !got.Equal(now) {
		t.Fatalf("rfc3339 timestamp: got %v", got)
	}

	if got := timeValue("not a timestamp"); !got.IsZero() {
		t.Fatalf("expected zero time for garbage, got %v", got)
	}
	if got := timeValue(nil); !got.IsZero() {
		t.Fatalf("expected zero time for nil, got %v", got)
	}
}
