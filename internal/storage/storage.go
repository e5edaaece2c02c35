package storage

import (
	"context"
	"io"
)

// FileStorage stores and retrieves attachment blobs by an opaque path.
type FileStorage interface {
	Save(ctx context.Context, fileID, filename string, reader io.Reader) (string, error)
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, storagePath string) error
}
