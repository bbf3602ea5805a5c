package utils

import (
	"context"
	"time"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	SessionKey contextKey = "session"
)

// Session is what the auth middleware learned from a verified token.
type Session struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

func SetSessionContext(ctx context.Context, s Session) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, s.UserID)
	return context.WithValue(ctx, SessionKey, s)
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func GetSessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionKey).(Session)
	return s, ok
}
