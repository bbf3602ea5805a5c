package middleware

import (
	"context"
	"errors"
	"net/http"

	"advance-auth/internal/data/repository"
	"advance-auth/pkg/token"
	"advance-auth/pkg/utils"

	"go.uber.org/zap"
)

const MsgNotAuthorized = "Not Authorized. Login Again"

var (
	errNoSession      = errors.New("no session cookie")
	errRevokedSession = errors.New("session revoked")
)

// TokenVerifier is the half of token.Issuer the middleware needs.
type TokenVerifier interface {
	Verify(tokenStr string) (token.Claims, error)
}

// AuthCookie rejects requests without a valid, unrevoked session cookie.
func AuthCookie(verifier TokenVerifier, sessions repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolveSession(r, verifier, sessions)
			if err != nil {
				if isStoreError(err) {
					logger.Error("Failed to check session", zap.Error(err), zap.String("path", r.URL.Path))
					utils.ResponseFailure(w, "Internal server error", nil)
					return
				}
				logger.Warn("Unauthorized request", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseFailure(w, MsgNotAuthorized, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetSessionContext(r.Context(), session)))
		})
	}
}

// OptionalAuth attaches the session when the cookie is valid and otherwise
// lets the request through untouched.
func OptionalAuth(verifier TokenVerifier, sessions repository.SessionRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := resolveSession(r, verifier, sessions)
			if err != nil {
				if !errors.Is(err, errNoSession) {
					logger.Debug("Ignoring session cookie", zap.Error(err), zap.String("path", r.URL.Path))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetSessionContext(r.Context(), session)))
		})
	}
}

type storeError struct{ err error }

func (e storeError) Error() string { return e.err.Error() }
func (e storeError) Unwrap() error { return e.err }

func isStoreError(err error) bool {
	var se storeError
	return errors.As(err, &se)
}

func resolveSession(r *http.Request, verifier TokenVerifier, sessions repository.SessionRepository) (utils.Session, error) {
	cookie, err := r.Cookie(utils.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return utils.Session{}, errNoSession
	}

	claims, err := verifier.Verify(cookie.Value)
	if err != nil {
		return utils.Session{}, err
	}

	revoked, err := isRevoked(r.Context(), sessions, claims.ID)
	if err != nil {
		return utils.Session{}, storeError{err}
	}
	if revoked {
		return utils.Session{}, errRevokedSession
	}

	session := utils.Session{UserID: claims.UserID, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

func isRevoked(ctx context.Context, sessions repository.SessionRepository, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return sessions.IsRevoked(ctx, tokenID)
}
