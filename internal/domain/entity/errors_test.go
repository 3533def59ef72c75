package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "required field",
			field:    "url",
			message:  "URL is required",
			expected: "validation error on field 'url': URL is required",
		},
		{
			name:     "range",
			field:    "rating",
			message:  "rating must be between 1 and 5",
			expected: "validation error on field 'rating': rating must be between 1 and 5",
		},
		{
			name:     "empty message",
			field:    "id",
			message:  "",
			expected: "validation error on field 'id': ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_UnwrapsToInvalidInput(t *testing.T) {
	err := fmt.Errorf("submit feedback: %w", &ValidationError{Field: "rating", Message: "bad"})

	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrNotFound))

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "rating", validationErr.Field)
}

func TestSentinelErrors_ErrorMessages(t *testing.T) {
	assert.Equal(t, "entity not found", ErrNotFound.Error())
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
	assert.NotEqual(t, ErrNotFound, ErrInvalidInput)
}
