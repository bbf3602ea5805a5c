package usecase

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"advance-auth/internal/data/entity"
	"advance-auth/internal/data/repository"
	"advance-auth/pkg/hash"
	"advance-auth/pkg/mail"
	"advance-auth/pkg/token"
	"advance-auth/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testOTP    = "482193"
	testSecret = "0123456789abcdef0123456789abcdef"
	testSender = "noreply@advance-auth.dev"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *fakeMailer) Dispatch(msg mail.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
}

func (m *fakeMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}
	}
	return m.sent[len(m.sent)-1]
}

// memUserRepo mirrors the stores' conditional updates under one lock.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*entity.User
	err    error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Migrate(context.Context) error { return nil }

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = "acc-" + strconv.Itoa(r.nextID)
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) SetOTP(_ context.Context, id string, purpose entity.OTPPurpose, code string, expireAt int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.SetOTPSlot(purpose, code, expireAt)
	u.UpdatedAt = now
	return nil
}

func (r *memUserRepo) consume(id string, purpose entity.OTPPurpose, code string, now time.Time, apply func(*entity.User)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || code == "" {
		return false
	}
	stored, expireAt := u.OTPSlot(purpose)
	if stored != code || expireAt <= now.UnixMilli() {
		return false
	}
	u.SetOTPSlot(purpose, "", 0)
	apply(u)
	return true
}

func (r *memUserRepo) ConsumeVerifyOTP(_ context.Context, id, code string, now time.Time) (bool, error) {
	return r.consume(id, entity.OTPPurposeVerify, code, now, func(u *entity.User) {
		u.IsAccountVerified = true
	}), nil
}

func (r *memUserRepo) ConsumeResetOTP(_ context.Context, id, code string, now time.Time, passwordHash string) (bool, error) {
	return r.consume(id, entity.OTPPurposeReset, code, now, func(u *entity.User) {
		u.PasswordHash = passwordHash
	}), nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *memUserRepo) get(id string) entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.users[id]
}

type memAttemptRepo struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (r *memAttemptRepo) Count(_ context.Context, key string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[key], nil
}

func (r *memAttemptRepo) Hit(_ context.Context, key string, _ time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[key]++
	return r.counts[key], nil
}

func (r *memAttemptRepo) Reset(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.counts, key)
	return nil
}

type memSessionRepo struct {
	mu      sync.Mutex
	revoked map[string]entity.Session
}

func (r *memSessionRepo) Revoke(_ context.Context, s entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[s.TokenID] = s
	return nil
}

func (r *memSessionRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[tokenID]
	return ok, nil
}

type harness struct {
	svc      *Service
	users    *memUserRepo
	attempts *memAttemptRepo
	sessions *memSessionRepo
	mailer   *fakeMailer
	clock    *fakeClock
	tokens   token.Issuer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	issuer, err := token.NewHS256([]byte(testSecret), 7*24*time.Hour, clk)
	require.NoError(t, err)

	h := &harness{
		users:    newMemUserRepo(),
		attempts: &memAttemptRepo{counts: make(map[string]int64)},
		sessions: &memSessionRepo{revoked: make(map[string]entity.Session)},
		mailer:   &fakeMailer{},
		clock:    clk,
		tokens:   issuer,
	}

	repo := &repository.Repository{User: h.users, Attempt: h.attempts, Session: h.sessions}
	config := &utils.Config{
		Email:  utils.EmailConfig{From: testSender},
		OTP:    utils.OTPConfig{VerifyTTLMinutes: 24 * 60, ResetTTLMinutes: 15},
		Limits: utils.LimitConfig{MaxLoginAttempts: 10, MaxOTPAttempts: 5, AttemptWindowMinutes: 15},
	}
	deps := Deps{
		Hasher: hash.NewBcrypt(4, ""),
		Tokens: issuer,
		Mailer: h.mailer,
		Clock:  clk,
		NewOTP: func() (string, error) { return testOTP, nil },
	}

	h.svc = NewService(repo, config, deps, zap.NewNop())
	return h
}
