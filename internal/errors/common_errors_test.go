package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"with cause", NewParsingError("bad body", errors.New("unexpected EOF")), "[PARSING] bad body: unexpected EOF"},
		{"without cause", NewAppValidationError("numU is required"), "[VALIDATION] numU is required"},
		{"computation", NewComputationError("inversion failed", nil), "[COMPUTATION] inversion failed"},
		{"config", NewConfigError("bad port", errors.New("70000")), "[CONFIG] bad port: 70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	root := errors.New("root cause")
	wrapped := fmt.Errorf("service: %w", NewComputationError("failed", root))

	assert.ErrorIs(t, wrapped, root)

	var appErr *AppError
	assert.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ErrTypeComputation, appErr.Type)
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewComputationError("failed", nil).
		WithContext("num_u", 128).
		WithContext("x_min", -18000.0)

	assert.Equal(t, 128, err.Context["num_u"])
	assert.Equal(t, -18000.0, err.Context["x_min"])

	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("k", "v")
	assert.Equal(t, "v", bare.Context["k"])
}
