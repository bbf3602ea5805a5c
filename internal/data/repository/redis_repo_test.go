package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"advance-auth/internal/data/entity"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisAttemptRepository_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisAttemptRepository(db, zap.NewNop())
	key := attemptPrefix + "login:a@x.com"

	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpireNX(key, 15*time.Minute).SetVal(true)
	mock.ExpectTxPipelineExec()

	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectExpireNX(key, 15*time.Minute).SetVal(false)
	mock.ExpectTxPipelineExec()

	n, err := repo.Hit(context.Background(), "login:a@x.com", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Hit(context.Background(), "login:a@x.com", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisAttemptRepository_HitExpiryFailure(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisAttemptRepository(db, zap.NewNop())
	key := attemptPrefix + "otp-check:reset:acc-1"

	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetVal(1)
	mock.ExpectExpireNX(key, time.Minute).SetErr(errors.New("expire failed"))
	mock.ExpectTxPipelineExec()

	_, err := repo.Hit(context.Background(), "otp-check:reset:acc-1", time.Minute)
	assert.Error(t, err)
}

func TestRedisAttemptRepository_Count(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisAttemptRepository(db, zap.NewNop())

	mock.ExpectGet(attemptPrefix + "login:a@x.com").RedisNil()
	mock.ExpectGet(attemptPrefix + "login:b@x.com").SetVal("4")
	mock.ExpectGet(attemptPrefix + "login:c@x.com").SetErr(errors.New("redis down"))

	n, err := repo.Count(context.Background(), "login:a@x.com")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Count(context.Background(), "login:b@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = repo.Count(context.Background(), "login:c@x.com")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisAttemptRepository_Reset(t *testing.T) {
	db, mock := redismock.NewClientMock()
	repo := NewRedisAttemptRepository(db, zap.NewNop())

	mock.ExpectDel(attemptPrefix + "login:a@x.com").SetVal(1)

	require.NoError(t, repo.Reset(context.Background(), "login:a@x.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepository(t *testing.T) {
	db, mock := redismock.NewClientMock()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &redisSessionRepository{rdb: db, now: func() time.Time { return now }, log: zap.NewNop()}

	mock.ExpectSet(revokedPrefix+"jti-1", "acc-1", time.Hour).SetVal("OK")
	mock.ExpectExists(revokedPrefix + "jti-1").SetVal(1)
	mock.ExpectExists(revokedPrefix + "jti-2").SetVal(0)

	err := repo.Revoke(context.Background(), entity.Session{TokenID: "jti-1", UserID: "acc-1", ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	revoked, err := repo.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(context.Background(), "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSessionRepository_ExpiredTokenIsSkipped(t *testing.T) {
	db, mock := redismock.NewClientMock()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &redisSessionRepository{rdb: db, now: func() time.Time { return now }, log: zap.NewNop()}

	err := repo.Revoke(context.Background(), entity.Session{TokenID: "jti-1", ExpiresAt: now.Add(-time.Second)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRepository_WithoutRedis(t *testing.T) {
	repo := NewRepository(nil, nil, zap.NewNop())

	n, err := repo.Attempt.Hit(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Zero(t, n)

	revoked, err := repo.Session.IsRevoked(context.Background(), "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}
