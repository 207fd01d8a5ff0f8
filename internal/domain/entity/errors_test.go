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
			name:     "limit",
			field:    "limit",
			message:  "must be an integer",
			expected: "validation error on field 'limit': must be an integer",
		},
		{
			name:     "format",
			field:    "format",
			message:  `must be one of json, csv (got "xml")`,
			expected: `validation error on field 'format': must be one of json, csv (got "xml")`,
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{Field: tt.field, Message: tt.message}
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	err := &ValidationError{Field: "offset", Message: "must be >= 0", Err: ErrInvalidParameter}

	assert.True(t, errors.Is(err, ErrInvalidParameter))
	assert.False(t, errors.Is(err, ErrInvalidColumn))

	// survives wrapping
	wrapped := fmt.Errorf("parse: %w", err)
	var ve *ValidationError
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "offset", ve.Field)
	assert.True(t, errors.Is(wrapped, ErrInvalidParameter))
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{ErrInvalidColumn, ErrInvalidFormat, ErrInvalidParameter}
	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation error without sentinel", &ValidationError{Field: "x"}, true},
		{"wrapped invalid column", fmt.Errorf("DistinctValues: %w", ErrInvalidColumn), true},
		{"invalid format", ErrInvalidFormat, true},
		{"invalid parameter", fmt.Errorf("limit -1: %w", ErrInvalidParameter), true},
		{"database error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidation(tt.err))
		})
	}
}
