package repository

import (
	"context"
	"fmt"
	"time"

	"advance-auth/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionRepository is a revocation list for issued tokens. An entry lives
// until the token would have expired anyway.
type SessionRepository interface {
	Revoke(ctx context.Context, session entity.Session) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedPrefix = "advance-auth:revoked:"

type redisSessionRepository struct {
	rdb *redis.Client
	now func() time.Time
	log *zap.Logger
}

func NewRedisSessionRepository(rdb *redis.Client, log *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		rdb: rdb,
		now: time.Now,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *redisSessionRepository) Revoke(ctx context.Context, session entity.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if session.TokenID == "" || ttl <= 0 {
		return nil
	}

	if err := r.rdb.Set(ctx, revokedPrefix+session.TokenID, session.UserID, ttl).Err(); err != nil {
		r.log.Error("Failed to revoke session",
			zap.Error(err),
			zap.String("user_id", session.UserID),
		)
		return fmt.Errorf("revoke session for user %s: %w", session.UserID, err)
	}

	return nil
}

func (r *redisSessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		r.log.Error("Failed to check session revocation", zap.Error(err))
		return false, fmt.Errorf("check session revocation: %w", err)
	}
	return n > 0, nil
}

type noopSessionRepository struct{}

func NewNoopSessionRepository() SessionRepository {
	return noopSessionRepository{}
}

func (noopSessionRepository) Revoke(context.Context, entity.Session) error { return nil }

func (noopSessionRepository) IsRevoked(context.Context, string) (bool, error) { return false, nil }
