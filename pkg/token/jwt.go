// Package token issues and verifies the signed session token carried in the
// session cookie.
package token

import (
	"errors"
	"time"

	"advance-auth/pkg/clock"

	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrSecretTooShort = errors.New("token secret must be at least 32 bytes")
	ErrTokenExpired   = errors.New("token has expired")
	ErrInvalidToken   = errors.New("invalid token")
)

const minSecretLen = 32

// Claims binds a session to an account identifier.
type Claims struct {
	libJWT.RegisteredClaims
	UserID string `json:"id"`
}

type Issuer interface {
	Issue(userID string) (signed string, claims Claims, err error)
	Verify(tokenStr string) (Claims, error)
	TTL() time.Duration
}

// HS256 signs tokens with an HMAC secret.
type HS256 struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clocker
}

func NewHS256(secret []byte, ttl time.Duration, clk clock.Clocker) (*HS256, error) {
	if len(secret) < minSecretLen {
		return nil, ErrSecretTooShort
	}
	if clk == nil {
		clk = clock.New()
	}
	return &HS256{secret: secret, ttl: ttl, clock: clk}, nil
}

func (s *HS256) TTL() time.Duration { return s.ttl }

func (s *HS256) Issue(userID string) (string, Claims, error) {
	now := s.clock.Now()
	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}

	signed, err := libJWT.NewWithClaims(libJWT.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

func (s *HS256) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			return s.secret, nil
		},
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS256.Alg()}),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
