package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo-backend/internal/authz"
)

// Todo statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// ValidStatus reports whether s is an allowed todo status.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoListQuery describes one page of a todo listing. Conds carries the
// status filter and the scope-narrowing constraint; SortBy must come from
// the handler's whitelist.
type TodoListQuery struct {
	Conds  []authz.Cond
	SortBy string
	Order  string // ASC or DESC
	Limit  int
	Offset int
}

// TodoPatch is a partial todo update. Nil fields are left unchanged.
type TodoPatch struct {
	Title       *string
	Description *string
	Status      *string
}

// ListTodos returns one page of todos plus the total count for the same
// conditions.
func (s *Store) ListTodos(ctx context.Context, q TodoListQuery) ([]Todo, int64, error) {
	pb := s.Dialect.NewParamBuilder()
	where := buildWhere(pb, q.Conds)

	countSQL := "SELECT COUNT(*) AS n FROM todos" + where
	row, err := QueryRow(ctx, s.DB, countSQL, pb.Params()...)
	if err != nil {
		return nil, 0, err
	}
	total := count(row["n"])

	pb = s.Dialect.NewParamBuilder()
	where = buildWhere(pb, q.Conds)
	listSQL := fmt.Sprintf(
		"SELECT id, user_id, title, description, status, created_at, updated_at FROM todos%s ORDER BY %s %s LIMIT %s OFFSET %s",
		where, q.SortBy, q.Order, pb.Add(q.Limit), pb.Add(q.Offset))
	rows, err := QueryRows(ctx, s.DB, listSQL, pb.Params()...)
	if err != nil {
		return nil, 0, err
	}

	todos := make([]Todo, 0, len(rows))
	for _, r := range rows {
		todos = append(todos, todoFromRow(r))
	}
	return todos, total, nil
}

// TodoByID fetches one todo visible under the given conditions.
func (s *Store) TodoByID(ctx context.Context, id string, conds []authz.Cond) (*Todo, error) {
	pb := s.Dialect.NewParamBuilder()
	all := append([]authz.Cond{{Field: "id", Value: id}}, conds...)
	sqlStr := "SELECT id, user_id, title, description, status, created_at, updated_at FROM todos" +
		buildWhere(pb, all)
	row, err := QueryRow(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	t := todoFromRow(row)
	return &t, nil
}

// CreateTodo inserts a new todo owned by userID.
func (s *Store) CreateTodo(ctx context.Context, userID, title, description string) (*Todo, error) {
	id := uuid.New().String()
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO todos (id, user_id, title, description) VALUES (%s, %s, %s, %s)",
		pb.Add(id), pb.Add(userID), pb.Add(title), pb.Add(description))
	if _, err := Exec(ctx, s.DB, sqlStr, pb.Params()...); err != nil {
		return nil, err
	}
	return s.TodoByID(ctx, id, nil)
}

// UpdateTodo applies patch to a todo visible under the given conditions.
// Returns ErrNotFound when no visible row matches.
func (s *Store) UpdateTodo(ctx context.Context, id string, conds []authz.Cond, patch TodoPatch) (*Todo, error) {
	pb := s.Dialect.NewParamBuilder()

	var sets []string
	if patch.Title != nil {
		sets = append(sets, "title = "+pb.Add(*patch.Title))
	}
	if patch.Description != nil {
		sets = append(sets, "description = "+pb.Add(*patch.Description))
	}
	if patch.Status != nil {
		sets = append(sets, "status = "+pb.Add(*patch.Status))
	}
	if len(sets) == 0 {
		return s.TodoByID(ctx, id, conds)
	}
	sets = append(sets, "updated_at = "+s.Dialect.NowExpr())

	all := append([]authz.Cond{{Field: "id", Value: id}}, conds...)
	sqlStr := "UPDATE todos SET " + strings.Join(sets, ", ") + buildWhere(pb, all)
	n, err := Exec(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.TodoByID(ctx, id, nil)
}

// DeleteTodo removes a todo visible under the given conditions.
// Returns ErrNotFound when no visible row matches.
func (s *Store) DeleteTodo(ctx context.Context, id string, conds []authz.Cond) error {
	pb := s.Dialect.NewParamBuilder()
	all := append([]authz.Cond{{Field: "id", Value: id}}, conds...)
	sqlStr := "DELETE FROM todos" + buildWhere(pb, all)
	n, err := Exec(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// buildWhere renders equality conditions as a WHERE clause, adding each
// value to pb. Empty conds produce an empty string.
func buildWhere(pb ParamBuilder, conds []authz.Cond) string {
	if len(conds) == 0 {
		return ""
	}
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, fmt.Sprintf("%s = %s", c.Field, pb.Add(c.Value)))
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

func todoFromRow(row map[string]any) Todo {
	t := Todo{}
	t.ID, _ = row["id"].(string)
	t.UserID, _ = row["user_id"].(string)
	t.Title, _ = row["title"].(string)
	t.Description, _ = row["description"].(string)
	t.Status, _ = row["status"].(string)
	t.CreatedAt = timeValue(row["created_at"])
	t.UpdatedAt = timeValue(row["updated_at"])
	return t
}
