package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(Config{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/files",
	})
	require.NoError(t, err)
	return s
}

func TestLocalStorageRoundtrip(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()
	path := "project_documents/p1/1700000000_report.pdf"

	err := s.Save(ctx, path, strings.NewReader("file contents"), 13, "application/pdf")
	require.NoError(t, err)

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	reader, err := s.Get(ctx, path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(data))
}

func TestLocalStorageDelete(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()
	path := "message_attachments/c1/1700000000_pic.png"

	require.NoError(t, s.Save(ctx, path, strings.NewReader("png"), 3, "image/png"))
	require.NoError(t, s.Delete(ctx, path))

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting a missing object is not an error
	assert.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	parent := t.TempDir()
	s, err := NewLocalStorage(Config{
		BasePath: filepath.Join(parent, "uploads"),
		BaseURL:  "/api/v1/files",
	})
	require.NoError(t, err)

	secret := filepath.Join(parent, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("top secret"), 0600))

	ctx := context.Background()

	_, err = s.Get(ctx, "../secret.txt")
	assert.ErrorIs(t, err, ErrInvalidPath)

	// dot segments buried deeper in the path are caught too
	_, err = s.Get(ctx, "project_documents/../../secret.txt")
	assert.ErrorIs(t, err, ErrInvalidPath)

	exists, err := s.Exists(ctx, "../secret.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	err = s.Save(ctx, "../planted.txt", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, ErrInvalidPath)
	assert.NoFileExists(t, filepath.Join(parent, "planted.txt"))

	assert.ErrorIs(t, s.Delete(ctx, "../secret.txt"), ErrInvalidPath)
	assert.FileExists(t, secret)
}

func TestLocalStorageURL(t *testing.T) {
	s := newTestLocalStorage(t)

	url, err := s.GetURL(context.Background(), "voice_messages/c1/voice_1700000000.webm")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/files/voice_messages/c1/voice_1700000000.webm", url)

	signed, err := s.GetSignedURL(context.Background(), "voice_messages/c1/voice_1700000000.webm", 0)
	require.NoError(t, err)
	assert.Equal(t, url, signed)
}
