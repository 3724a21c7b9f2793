package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(cause, "Failed to save file a.png", http.StatusInternalServerError)

	assert.Equal(t, "disk full", err.Details)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to save file a.png: disk full", err.Error())
}

func TestAs_FindsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", BadRequest("Invalid ID", "id must be an integer"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	assert.Equal(t, "Invalid ID", appErr.Message)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
