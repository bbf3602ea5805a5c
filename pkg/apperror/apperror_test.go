package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("All fields are required", nil), KindValidation},
		{"conflict", Conflict("User already exists"), KindConflict},
		{"auth", Auth("Invalid credentials"), KindAuth},
		{"expired", Expired("OTP expired"), KindExpired},
		{"not found", NotFound("User not found"), KindNotFound},
		{"too many", TooManyAttempts("Too many attempts"), KindTooManyAttempts},
		{"wrapped", fmt.Errorf("handler: %w", Auth("Invalid OTP")), KindAuth},
		{"plain error", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "Internal server error", MessageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestError_Is(t *testing.T) {
	assert.ErrorIs(t, Auth("Invalid OTP"), Auth("Invalid OTP"))
	assert.NotErrorIs(t, Auth("Invalid OTP"), Expired("Invalid OTP"))
	assert.NotErrorIs(t, Auth("Invalid OTP"), Auth("Invalid credentials"))
}

func TestMessageOf_PlainError(t *testing.T) {
	assert.Equal(t, "Internal server error", MessageOf(errors.New("secret detail")))
}
