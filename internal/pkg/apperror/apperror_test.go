package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCauseKeepsSentinelIdentity(t *testing.T) {
	sentinel := New(http.StatusNotFound, "doctor not found")
	cause := errors.New("connection reset")

	err := fmt.Errorf("lookup: %w", sentinel.WithCause(cause))

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, New(http.StatusNotFound, "appointment not found"))

	var appErr *AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, http.StatusNotFound, appErr.Code)
		assert.Equal(t, "doctor not found", appErr.Message)
	}
}
