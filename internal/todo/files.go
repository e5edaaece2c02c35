package todo

import (
	"errors"
	"fmt"
	"mime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"todo-backend/internal/auth"
	"todo-backend/internal/storage"
	"todo-backend/internal/store"
	"todo-backend/internal/web"
)

// FileHandler serves todo attachments.
type FileHandler struct {
	store   *store.Store
	storage storage.FileStorage
	maxSize int64
}

func NewFileHandler(s *store.Store, fs storage.FileStorage, maxSize int64) *FileHandler {
	return &FileHandler{store: s, storage: fs, maxSize: maxSize}
}

// Upload handles POST /todo/:id/files (multipart form, field "file").
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	todoID := c.Params("id")
	if _, err := uuid.Parse(todoID); err != nil {
		return web.BadRequestError("Invalid Todo ID")
	}

	// The todo must be visible under the caller's scope.
	if _, err := h.store.TodoByID(c.Context(), todoID, a.Conds()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError("Todo", todoID)
		}
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return web.BadRequestError("Missing file in form data")
	}
	if file.Size > h.maxSize {
		return web.NewAppError("FILE_TOO_LARGE", 413,
			fmt.Sprintf("File too large: %d bytes (max %d)", file.Size, h.maxSize))
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	fileID := uuid.New().String()
	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	storagePath, err := h.storage.Save(c.Context(), fileID, file.Filename, src)
	if err != nil {
		return fmt.Errorf("save file: %w", err)
	}

	rec := &store.File{
		ID:          fileID,
		TodoID:      todoID,
		UserID:      a.UserID,
		Filename:    file.Filename,
		StoragePath: storagePath,
		MimeType:    mimeType,
		Size:        file.Size,
	}
	if err := h.store.CreateFile(c.Context(), rec); err != nil {
		// Clean up the stored blob on DB failure
		_ = h.storage.Delete(c.Context(), storagePath)
		return fmt.Errorf("insert file row: %w", err)
	}

	return web.Created(c, rec)
}

// Serve handles GET /files/:id and streams the attachment.
func (h *FileHandler) Serve(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	id := c.Params("id")

	f, err := h.store.FileByID(c.Context(), id, a.Conds())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError("File", id)
		}
		return err
	}

	reader, err := h.storage.Open(c.Context(), f.StoragePath)
	if err != nil {
		return fmt.Errorf("open stored file: %w", err)
	}

	c.Set("Content-Type", f.MimeType)
	c.Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": f.Filename}))
	return c.SendStream(reader)
}

// Delete handles DELETE /files/:id.
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	a := auth.GetAuth(c)
	id := c.Params("id")

	f, err := h.store.FileByID(c.Context(), id, a.Conds())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError("File", id)
		}
		return err
	}

	if err := h.storage.Delete(c.Context(), f.StoragePath); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	if err := h.store.DeleteFile(c.Context(), id, nil); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete file row: %w", err)
	}

	return web.Message(c, "File deleted successfully")
}

// RegisterFileRoutes registers the attachment endpoints behind the protect
// middleware.
func RegisterFileRoutes(app *fiber.App, h *FileHandler, protect fiber.Handler) {
	app.Post("/todo/:id/files", protect, h.Upload)

	files := app.Group("/files", protect)
	files.Get("/:id", h.Serve)
	files.Delete("/:id", h.Delete)
}
