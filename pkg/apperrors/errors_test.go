package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := Wrap(cause, CodeDatabaseError, "db", "query failed", http.StatusInternalServerError)

	assert.True(t, errors.Is(appErr, cause))
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	appErr := ErrInvalidOperation("chat", "cannot message yourself")
	wrapped := appErr

	got, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidOperation, got.Code)
	assert.Equal(t, http.StatusBadRequest, got.HTTPCode)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestMarshalJSONHidesCause(t *testing.T) {
	cause := errors.New("secret internal detail")
	appErr := InternalError(cause)

	raw, err := json.Marshal(appErr)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "secret internal detail")
	assert.Contains(t, string(raw), string(CodeInternalError))
}

func TestDomainErrorStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrConversationNotFound.HTTPCode)
	assert.Equal(t, http.StatusForbidden, ErrNotConversationMember.HTTPCode)
	assert.Equal(t, http.StatusRequestEntityTooLarge, ErrFileTooLarge.HTTPCode)
	assert.Equal(t, http.StatusUnsupportedMediaType, ErrInvalidFileType.HTTPCode)
	assert.Equal(t, http.StatusConflict, ErrAlreadyExists(nil).HTTPCode)
}
