package repository

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	User    UserRepository
	Attempt AttemptRepository
	Session SessionRepository
}

// NewRepository groups the credential store with the Redis-backed counters.
// A nil rdb wires no-op counters and an empty revocation list.
func NewRepository(user UserRepository, rdb *redis.Client, log *zap.Logger) *Repository {
	if rdb == nil {
		return &Repository{
			User:    user,
			Attempt: NewNoopAttemptRepository(),
			Session: NewNoopSessionRepository(),
		}
	}

	return &Repository{
		User:    user,
		Attempt: NewRedisAttemptRepository(rdb, log),
		Session: NewRedisSessionRepository(rdb, log),
	}
}
