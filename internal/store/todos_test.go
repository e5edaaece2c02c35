package store

import (
	"errors"
	"testing"

	"todo-backend/internal/authz"
)

func TestBuildWhere_Postgres(t *testing.T) {
	d := &PostgresDialect{}
	pb := d.NewParamBuilder()
	where := buildWhere(pb, []authz.Cond{
		{Field: "status", Value: "pending"},
		{Field: "user_id", Value: "u1"},
	})
	if where != " WHERE status = $1 AND user_id = $2" {
		t.Fatalf("unexpected clause: %q", where)
	}
	params := pb.Params()
	if len(params) != 2 || params[0] != "pending" || params[1] != "u1" {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestBuildWhere_SQLite(t *testing.T) {
	d := &SQLiteDialect{}
	pb := d.NewParamBuilder()
	where := buildWhere(pb, []authz.Cond{{Field: "id", Value: "t1"}})
	if where != " WHERE id = ?1" {
		t.Fatalf("unexpected clause: %q", where)
	}
}

func TestBuildWhere_Empty(t *testing.T) {
	d := &PostgresDialect{}
	pb := d.NewParamBuilder()
	if where := buildWhere(pb, nil); where != "" {
		t.Fatalf("expected empty clause, got %q", where)
	}
	if pb.Count() != 0 {
		t.Fatalf("expected no params, got %d", pb.Count())
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusCompleted} {
		if !ValidStatus(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if ValidStatus("done") {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestMapError_UniqueViolation(t *testing.T) {
	pg := &PostgresDialect{}
	err := pg.MapError(errors.New(`ERROR: duplicate key value violates unique constraint "users_email_key" (SQLSTATE 23505)`))
	if !errors.Is(err, ErrUniqueViolation) {
		t.Fatalf("expected unique violation sentinel, got %v", err)
	}

	sq := &SQLiteDialect{}
	err = sq.MapError(errors.New("constraint failed: UNIQUE constraint failed: users.email"))
	if !errors.Is(err, ErrUniqueViolation) {
		t.Fatalf("expected unique violation sentinel, got %v", err)
	}

	if pg.MapError(nil) != nil {
		t.Fatal("expected nil passthrough")
	}
}
