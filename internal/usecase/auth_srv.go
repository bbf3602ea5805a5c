package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advance-auth/internal/data/entity"
	"advance-auth/internal/data/repository"
	"advance-auth/internal/dto/request"
	"advance-auth/internal/dto/response"
	"advance-auth/pkg/apperror"
	"advance-auth/pkg/clock"
	"advance-auth/pkg/hash"
	"advance-auth/pkg/mail"
	"advance-auth/pkg/token"
	"advance-auth/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, session entity.Session) error
	// SendVerifyOTP reports alreadyVerified without sending anything when the
	// account is verified.
	SendVerifyOTP(ctx context.Context, userID string) (alreadyVerified bool, err error)
	VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error
	SendResetOTP(ctx context.Context, req *request.SendResetOTPRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo   *repository.Repository // user, attempt & session repos
	hasher hash.Hasher
	tokens token.Issuer
	mailer mail.Sender
	clock  clock.Clocker
	newOTP func() (string, error)
	otp    utils.OTPConfig
	limits utils.LimitConfig
	from   string
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	deps Deps,
	log *zap.Logger,
) AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.New()
	}
	newOTP := deps.NewOTP
	if newOTP == nil {
		newOTP = utils.GenerateOTP
	}

	return &authService{
		repo:   repo,
		hasher: deps.Hasher,
		tokens: deps.Tokens,
		mailer: deps.Mailer,
		clock:  clk,
		newOTP: newOTP,
		otp:    config.OTP,
		limits: config.Limits,
		from:   config.Email.From,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperror.Validation(MsgAllFieldsRequired, errs)
	}

	// 2. Reject a taken email before paying for the hash
	_, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err == nil {
		s.log.Warn("Register with existing email", zap.String("email", req.Email))
		return nil, apperror.Conflict(MsgUserExists)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	// 3. Hash password
	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	// 4. Create account; the unique email constraint settles concurrent registrations
	now := s.clock.Now()
	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Warn("Register lost race on email", zap.String("email", req.Email))
			return nil, apperror.Conflict(MsgUserExists)
		}
		return nil, apperror.Internal(err)
	}

	// 5. Auto login
	auth, err := s.issueSession(user.ID)
	if err != nil {
		return nil, err
	}

	// 6. Welcome email, best effort
	s.mailer.Dispatch(welcomeMail(s.from, user))

	s.log.Info("User registered", zap.String("user_id", user.ID))
	return auth, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, apperror.Validation(MsgAllFieldsRequired, errs)
	}

	key := loginAttemptKey(req.Email)
	if s.limitReached(ctx, key, s.limits.MaxLoginAttempts) {
		s.log.Warn("Login locked out", zap.String("email", req.Email))
		return nil, apperror.TooManyAttempts(MsgTooManyAttempts)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.hit(ctx, key)
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, apperror.Auth(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		s.hit(ctx, key)
		s.log.Warn("Invalid password", zap.String("user_id", user.ID))
		return nil, apperror.Auth(MsgInvalidCredentials)
	}

	s.reset(ctx, key)

	auth, err := s.issueSession(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID))
	return auth, nil
}

func (s *authService) Logout(ctx context.Context, session entity.Session) error {
	if session.TokenID == "" {
		return nil
	}

	if err := s.repo.Session.Revoke(ctx, session); err != nil {
		return apperror.Internal(err)
	}

	s.log.Info("User logged out", zap.String("user_id", session.UserID))
	return nil
}

func (s *authService) SendVerifyOTP(ctx context.Context, userID string) (bool, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("Verify OTP for missing user", zap.String("user_id", userID))
		return false, apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return false, apperror.Internal(err)
	}

	if user.IsAccountVerified {
		return true, nil
	}

	return false, s.issueOTP(ctx, user, entity.OTPPurposeVerify, s.otp.VerifyTTL())
}

func (s *authService) VerifyEmail(ctx context.Context, req *request.VerifyEmailRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify email validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return apperror.Validation(MsgAllFieldsRequired, errs)
	}

	user, err := s.repo.User.FindByID(ctx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("Verify email for missing user", zap.String("user_id", req.UserID))
		return apperror.NotFound(MsgUserDoesNotExist)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	err = s.consumeOTP(ctx, user, entity.OTPPurposeVerify, req.OTP, func(now time.Time) (bool, error) {
		return s.repo.User.ConsumeVerifyOTP(ctx, user.ID, req.OTP, now)
	})
	if err != nil {
		return err
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID))
	return nil
}

func (s *authService) SendResetOTP(ctx context.Context, req *request.SendResetOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Validation(MsgEmailRequired, errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("Reset OTP for unknown email", zap.String("email", req.Email))
		return apperror.NotFound(MsgUserDoesNotExist)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	return s.issueOTP(ctx, user, entity.OTPPurposeReset, s.otp.ResetTTL())
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reset password validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return apperror.Validation(MsgAllFieldsRequired, errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("Reset password for unknown email", zap.String("email", req.Email))
		return apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	err = s.consumeOTP(ctx, user, entity.OTPPurposeReset, req.OTP, func(now time.Time) (bool, error) {
		hashed, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return false, fmt.Errorf("hash password: %w", err)
		}
		return s.repo.User.ConsumeResetOTP(ctx, user.ID, req.OTP, now, hashed)
	})
	if err != nil {
		return err
	}

	// A fresh password lifts any login lockout.
	s.reset(ctx, loginAttemptKey(user.Email))

	s.log.Info("Password reset", zap.String("user_id", user.ID))
	return nil
}

func (s *authService) issueSession(userID string) (*response.AuthResponse, error) {
	signed, claims, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("issue token: %w", err))
	}

	return &response.AuthResponse{
		UserID:    userID,
		Token:     signed,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// issueOTP replaces the purpose's code and mails it. Each call counts against
// the account's issuance budget.
func (s *authService) issueOTP(ctx context.Context, user *entity.User, purpose entity.OTPPurpose, ttl time.Duration) error {
	if n := s.hit(ctx, otpIssueKey(user.ID)); s.limits.MaxOTPAttempts > 0 && n > int64(s.limits.MaxOTPAttempts) {
		s.log.Warn("OTP issuance limit reached",
			zap.String("user_id", user.ID),
			zap.String("purpose", string(purpose)),
		)
		return apperror.TooManyAttempts(MsgTooManyAttempts)
	}

	code, err := s.newOTP()
	if err != nil {
		return apperror.Internal(fmt.Errorf("generate otp: %w", err))
	}
	now := s.clock.Now()

	err = s.repo.User.SetOTP(ctx, user.ID, purpose, code, now.Add(ttl).UnixMilli(), now)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return apperror.Internal(err)
	}

	s.mailer.Dispatch(otpMail(s.from, user.Email, purpose, code))

	s.log.Info("OTP issued",
		zap.String("user_id", user.ID),
		zap.String("purpose", string(purpose)),
	)
	return nil
}

// consumeOTP checks code against the loaded record, then applies consume,
// which must be a conditional update. A false result from consume means the
// slot changed since it was loaded.
func (s *authService) consumeOTP(
	ctx context.Context,
	user *entity.User,
	purpose entity.OTPPurpose,
	code string,
	consume func(now time.Time) (bool, error),
) error {
	key := otpCheckKey(user.ID, purpose)
	if s.limitReached(ctx, key, s.limits.MaxOTPAttempts) {
		s.log.Warn("OTP check limit reached",
			zap.String("user_id", user.ID),
			zap.String("purpose", string(purpose)),
		)
		return apperror.TooManyAttempts(MsgTooManyAttempts)
	}

	now := s.clock.Now()
	stored, expireAt := user.OTPSlot(purpose)

	switch entity.CheckOTP(stored, expireAt, code, now) {
	case entity.OTPInvalid:
		s.hit(ctx, key)
		s.log.Warn("Invalid OTP",
			zap.String("user_id", user.ID),
			zap.String("purpose", string(purpose)),
		)
		return apperror.Auth(MsgInvalidOTP)
	case entity.OTPExpired:
		s.log.Warn("Expired OTP",
			zap.String("user_id", user.ID),
			zap.String("purpose", string(purpose)),
		)
		return apperror.Expired(MsgOTPExpired)
	}

	applied, err := consume(now)
	if err != nil {
		return apperror.Internal(err)
	}
	if !applied {
		s.hit(ctx, key)
		s.log.Warn("OTP already consumed or replaced",
			zap.String("user_id", user.ID),
			zap.String("purpose", string(purpose)),
		)
		return apperror.Auth(MsgInvalidOTP)
	}

	s.reset(ctx, key)
	return nil
}

// limitReached fails open: a counter outage never blocks a user.
func (s *authService) limitReached(ctx context.Context, key string, limit int) bool {
	if limit <= 0 {
		return false
	}
	n, err := s.repo.Attempt.Count(ctx, key)
	if err != nil {
		s.log.Warn("Attempt counter unavailable", zap.Error(err))
		return false
	}
	return n >= int64(limit)
}

func (s *authService) hit(ctx context.Context, key string) int64 {
	n, err := s.repo.Attempt.Hit(ctx, key, s.limits.AttemptWindow())
	if err != nil {
		s.log.Warn("Attempt counter unavailable", zap.Error(err))
		return 0
	}
	return n
}

func (s *authService) reset(ctx context.Context, key string) {
	if err := s.repo.Attempt.Reset(ctx, key); err != nil {
		s.log.Warn("Attempt counter unavailable", zap.Error(err))
	}
}

func loginAttemptKey(email string) string {
	return "login:" + email
}

func otpIssueKey(userID string) string {
	return "otp-issue:" + userID
}

func otpCheckKey(userID string, purpose entity.OTPPurpose) string {
	return "otp-check:" + string(purpose) + ":" + userID
}
