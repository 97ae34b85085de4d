package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		isValid bool
		isNF    bool
		isConf  bool
		isInt   bool
	}{
		{"validation", Validation("ticket count must be positive"), true, false, false, false},
		{"not found", NotFound("event %s not found", "abc"), false, true, false, false},
		{"conflict", Conflict("seats not available: %s", "A1, A2"), false, false, true, false},
		{"internal", Internal("query failed", errors.New("connection reset")), false, false, false, true},
		{"plain error", errors.New("boom"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, IsValidation(tt.err))
			assert.Equal(t, tt.isNF, IsNotFound(tt.err))
			assert.Equal(t, tt.isConf, IsConflict(tt.err))
			assert.Equal(t, tt.isInt, IsInternal(tt.err))
		})
	}
}

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("creating booking: %w", Conflict("seats not available: B3"))
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad input")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("missing")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("taken")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal("db down", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestPublicMessageHidesInternalCause(t *testing.T) {
	internal := Internal("query failed", errors.New("password=hunter2 rejected"))
	assert.Equal(t, "internal server error", PublicMessage(internal))

	conflict := Conflict("only 5 tickets available")
	assert.Equal(t, "only 5 tickets available", PublicMessage(conflict))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("query failed", cause)
	require.ErrorIs(t, err, cause)
}
