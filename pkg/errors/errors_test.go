package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name       string
		err        error
		validation bool
		storage    bool
		status     int
	}{
		{"validation", NewMissingFieldsError([]string{"date"}), true, false, http.StatusBadRequest},
		{"read", NewStorageReadError("data.json", cause), false, true, http.StatusInternalServerError},
		{"write", NewStorageWriteError("data.json", cause), false, true, http.StatusInternalServerError},
		{"unavailable", NewUnavailableError("events", cause), false, true, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)

			assert.Equal(t, tt.validation, IsValidation(wrapped))
			assert.Equal(t, tt.storage, IsStorage(wrapped))

			appErr := GetAppError(wrapped)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}

	assert.Nil(t, GetAppError(cause))
	assert.False(t, IsStorage(cause))
}

func TestAppError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageWriteError("contact1.json", cause)

	assert.Equal(t, "STORAGE_WRITE: writing to 'contact1.json' failed (caused by: disk full)", err.Error())
	assert.ErrorIs(t, err, cause)

	missing := NewMissingFieldsError([]string{"guests", "budget"})
	assert.Equal(t, []string{"guests", "budget"}, missing.Details["fields"])
	assert.Equal(t, "VALIDATION: missing required fields: [guests budget]", missing.Error())
}
