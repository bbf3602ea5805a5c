package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advance-auth/internal/data/entity"
	"advance-auth/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const usersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id                   UUID PRIMARY KEY,
		name                 TEXT NOT NULL,
		email                TEXT NOT NULL UNIQUE,
		password             TEXT NOT NULL,
		is_account_verified  BOOLEAN NOT NULL DEFAULT FALSE,
		verify_otp           TEXT NOT NULL DEFAULT '',
		verify_otp_expire_at BIGINT NOT NULL DEFAULT 0,
		reset_otp            TEXT NOT NULL DEFAULT '',
		reset_otp_expire_at  BIGINT NOT NULL DEFAULT 0,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	)
`

const userColumns = `id::text, name, email, password, is_account_verified,
		       verify_otp, verify_otp_expire_at, reset_otp, reset_otp_expire_at,
		       created_at, updated_at`

type pgUserRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostgresUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &pgUserRepository{
		db:  db,
		log: log.With(zap.String("repository", "user"), zap.String("driver", "postgres")),
	}
}

func (ur *pgUserRepository) Migrate(ctx context.Context) error {
	if _, err := ur.db.Exec(ctx, usersSchema); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (ur *pgUserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password, is_account_verified,
		                   verify_otp, verify_otp_expire_at, reset_otp, reset_otp_expire_at,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	id := uuid.New()
	_, err := ur.db.Exec(ctx, query,
		id,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.IsAccountVerified,
		user.VerifyOTP,
		user.VerifyOTPExpireAt,
		user.ResetOTP,
		user.ResetOTPExpireAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrDuplicate
	}
	if err != nil {
		ur.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	user.ID = id.String()
	return nil
}

func (ur *pgUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, uid))
	if err != nil && !errors.Is(err, ErrNotFound) {
		ur.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}
	return user, err
}

func (ur *pgUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := ur.scanOne(ur.db.QueryRow(ctx, query, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		ur.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, err
}

func (ur *pgUserRepository) SetOTP(ctx context.Context, id string, purpose entity.OTPPurpose, code string, expireAt int64, now time.Time) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	query := `UPDATE users SET verify_otp = $2, verify_otp_expire_at = $3, updated_at = $4 WHERE id = $1`
	if purpose == entity.OTPPurposeReset {
		query = `UPDATE users SET reset_otp = $2, reset_otp_expire_at = $3, updated_at = $4 WHERE id = $1`
	}

	result, err := ur.db.Exec(ctx, query, uid, code, expireAt, now)
	if err != nil {
		ur.log.Error("Failed to set OTP",
			zap.Error(err),
			zap.String("user_id", id),
			zap.String("purpose", string(purpose)),
		)
		return fmt.Errorf("set %s OTP for user %s: %w", purpose, id, err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (ur *pgUserRepository) ConsumeVerifyOTP(ctx context.Context, id, code string, now time.Time) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil || code == "" {
		return false, nil
	}

	query := `
		UPDATE users
		SET is_account_verified = TRUE, verify_otp = '', verify_otp_expire_at = 0, updated_at = $4
		WHERE id = $1 AND verify_otp = $2 AND verify_otp_expire_at > $3
	`

	result, err := ur.db.Exec(ctx, query, uid, code, now.UnixMilli(), now)
	if err != nil {
		ur.log.Error("Failed to consume verify OTP", zap.Error(err), zap.String("user_id", id))
		return false, fmt.Errorf("consume verify OTP for user %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (ur *pgUserRepository) ConsumeResetOTP(ctx context.Context, id, code string, now time.Time, passwordHash string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil || code == "" {
		return false, nil
	}

	query := `
		UPDATE users
		SET password = $4, reset_otp = '', reset_otp_expire_at = 0, updated_at = $5
		WHERE id = $1 AND reset_otp = $2 AND reset_otp_expire_at > $3
	`

	result, err := ur.db.Exec(ctx, query, uid, code, now.UnixMilli(), passwordHash, now)
	if err != nil {
		ur.log.Error("Failed to consume reset OTP", zap.Error(err), zap.String("user_id", id))
		return false, fmt.Errorf("consume reset OTP for user %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (ur *pgUserRepository) scanOne(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.IsAccountVerified,
		&user.VerifyOTP,
		&user.VerifyOTPExpireAt,
		&user.ResetOTP,
		&user.ResetOTPExpireAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
