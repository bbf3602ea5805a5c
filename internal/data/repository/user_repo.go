package repository

import (
	"context"
	"errors"
	"time"

	"advance-auth/internal/data/entity"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository is the credential store. Create assigns the ID. The Consume
// methods are conditional updates: they apply only when the stored code
// equals code and has not expired at now, and report whether they applied.
type UserRepository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	SetOTP(ctx context.Context, id string, purpose entity.OTPPurpose, code string, expireAt int64, now time.Time) error
	ConsumeVerifyOTP(ctx context.Context, id, code string, now time.Time) (bool, error)
	ConsumeResetOTP(ctx context.Context, id, code string, now time.Time, passwordHash string) (bool, error)
}
