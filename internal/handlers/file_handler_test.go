package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"studlance_backend/internal/storage"
	"studlance_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileTestRouter(t *testing.T) (*gin.Engine, storage.Storage, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	parent := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{
		BasePath: filepath.Join(parent, "uploads"),
		BaseURL:  "/api/v1/files",
	})
	require.NoError(t, err)

	router := gin.New()
	handler := NewFileHandler(NewBaseHandler(validator.New()), store)
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, store, parent
}

func TestServeStoredFile(t *testing.T) {
	router, store, _ := newFileTestRouter(t)
	path := "project_documents/p1/1700000000_brief.txt"
	require.NoError(t, store.Save(context.Background(), path, strings.NewReader("hello"), 5, "text/plain"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+path, nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

// A raw client can send dot segments the browser would normalize away;
// they must never resolve outside the storage root.
func TestServeRejectsDotSegments(t *testing.T) {
	router, _, parent := newFileTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("top secret"), 0600))

	for _, target := range []string{
		"/api/v1/files/../secret.txt",
		"/api/v1/files/project_documents/../../secret.txt",
		"/api/v1/files/..",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.NotContains(t, w.Body.String(), "top secret", target)
	}
}
