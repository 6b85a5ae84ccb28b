package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"not found", NotFound("recipe", "42"), ErrNotFound, "recipe not found with id 42"},
		{"validation", ValidationFailed("cooking_time", "must be at least 1"), ErrValidation, "must be at least 1"},
		{"conflict", Conflict("recipe", "already in favorites"), ErrConflict, "already in favorites"},
		{"forbidden", Forbidden("only the author can edit"), ErrForbidden, "only the author can edit"},
		{"unauthorized", Unauthorized("bad credentials"), ErrUnauthorized, "bad credentials"},
		{"self follow", SelfFollow(), ErrSelfFollow, "you cannot subscribe to yourself"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.message, tt.err.Error())

			wrapped := fmt.Errorf("service: %w", tt.err)
			assert.True(t, errors.Is(wrapped, tt.sentinel))

			var appErr *AppError
			assert.True(t, errors.As(wrapped, &appErr))
		})
	}
}

func TestSelfFollowIsValidation(t *testing.T) {
	assert.True(t, errors.Is(SelfFollow(), ErrValidation))
	assert.False(t, errors.Is(ValidationFailed("x", "y"), ErrSelfFollow))
}

func TestFieldIsKept(t *testing.T) {
	err := ValidationFailed("ingredients", "at least one ingredient is required")
	assert.Equal(t, "ingredients", err.Field)
}
