package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AttemptRepository keeps fixed-window counters keyed by an arbitrary string
// (e.g. "login:a@x.com").
type AttemptRepository interface {
	Count(ctx context.Context, key string) (int64, error)
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

const attemptPrefix = "advance-auth:attempts:"

type redisAttemptRepository struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisAttemptRepository(rdb *redis.Client, log *zap.Logger) AttemptRepository {
	return &redisAttemptRepository{
		rdb: rdb,
		log: log.With(zap.String("repository", "attempt")),
	}
}

func (r *redisAttemptRepository) Count(ctx context.Context, key string) (int64, error) {
	n, err := r.rdb.Get(ctx, attemptPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to read attempts", zap.Error(err), zap.String("key", key))
		return 0, fmt.Errorf("count attempts %s: %w", key, err)
	}
	return n, nil
}

func (r *redisAttemptRepository) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	redisKey := attemptPrefix + key

	// MULTI/EXEC keeps the counter from ever living without a TTL. EXPIRE NX
	// only arms the window on a key that has none, so it stays fixed.
	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, window)
		return nil
	})
	if err != nil {
		r.log.Error("Failed to record attempt", zap.Error(err), zap.String("key", key))
		return 0, fmt.Errorf("hit attempts %s: %w", key, err)
	}

	return incr.Val(), nil
}

func (r *redisAttemptRepository) Reset(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, attemptPrefix+key).Err(); err != nil {
		r.log.Error("Failed to reset attempts", zap.Error(err), zap.String("key", key))
		return fmt.Errorf("reset attempts %s: %w", key, err)
	}
	return nil
}

// noopAttemptRepository never counts, so no limit is ever reached.
type noopAttemptRepository struct{}

func NewNoopAttemptRepository() AttemptRepository {
	return noopAttemptRepository{}
}

func (noopAttemptRepository) Count(context.Context, string) (int64, error) { return 0, nil }

func (noopAttemptRepository) Hit(context.Context, string, time.Duration) (int64, error) {
	return 0, nil
}

func (noopAttemptRepository) Reset(context.Context, string) error { return nil }
