package handlers

import (
	"io"
	"net/http"
	"strings"

	"studlance_backend/internal/storage"
	"studlance_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler streams stored objects when local storage is in use. With
// MinIO the URLs point straight at the bucket and this route is idle.
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, store storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     store,
	}
}

func (h *FileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/files/*path", h.Serve)
}

func (h *FileHandler) Serve(c *gin.Context) {
	path := c.Param("path")
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	if path == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file path"))
		return
	}
	// stored paths never contain dot segments; anything with them is a
	// traversal attempt, regardless of backend
	if strings.Contains(path, "..") {
		apperrors.HandleError(c, apperrors.ErrNotFound(nil))
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), path)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	if !exists {
		apperrors.HandleError(c, apperrors.ErrNotFound(nil))
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), path)
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
