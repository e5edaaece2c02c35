package store

import (
	"context"
	"fmt"
	"time"

	"todo-backend/internal/authz"
)

// File is a stored attachment's metadata row.
type File struct {
	ID          string    `json:"id"`
	TodoID      string    `json:"todoId"`
	UserID      string    `json:"userId"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateFile records an uploaded attachment.
func (s *Store) CreateFile(ctx context.Context, f *File) error {
	pb := s.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf(
		"INSERT INTO files (id, todo_id, user_id, filename, storage_path, mime_type, size) VALUES (%s, %s, %s, %s, %s, %s, %s)",
		pb.Add(f.ID), pb.Add(f.TodoID), pb.Add(f.UserID), pb.Add(f.Filename),
		pb.Add(f.StoragePath), pb.Add(f.MimeType), pb.Add(f.Size))
	_, err := Exec(ctx, s.DB, sqlStr, pb.Params()...)
	return err
}

// FileByID fetches one attachment visible under the given conditions.
func (s *Store) FileByID(ctx context.Context, id string, conds []authz.Cond) (*File, error) {
	pb := s.Dialect.NewParamBuilder()
	all := append([]authz.Cond{{Field: "id", Value: id}}, conds...)
	sqlStr := "SELECT id, todo_id, user_id, filename, storage_path, mime_type, size, created_at FROM files" +
		buildWhere(pb, all)
	row, err := QueryRow(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, err
	}
	f := fileFromRow(row)
	return &f, nil
}

// DeleteFile removes an attachment row visible under the given conditions.
func (s *Store) DeleteFile(ctx context.Context, id string, conds []authz.Cond) error {
	pb := s.Dialect.NewParamBuilder()
	all := append([]authz.Cond{{Field: "id", Value: id}}, conds...)
	sqlStr := "DELETE FROM files" + buildWhere(pb, all)
	n, err := Exec(ctx, s.DB, sqlStr, pb.Params()...)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func fileFromRow(row map[string]any) File {
	f := File{}
	f.ID, _ = row["id"].(string)
	f.TodoID, _ = row["todo_id"].(string)
	f.UserID, _ = row["user_id"].(string)
	f.Filename, _ = row["filename"].(string)
	f.StoragePath, _ = row["storage_path"].(string)
	f.MimeType, _ = row["mime_type"].(string)
	switch n := row["size"].(type) {
	case int64:
		f.Size = n
	case float64:
		f.Size = int64(n)
	}
	f.CreatedAt = timeValue(row["created_at"])
	return f
}
