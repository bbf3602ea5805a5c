package entity

import "time"

// Session identifies one issued token so it can be revoked before it expires.
type Session struct {
	TokenID   string
	UserID    string
	ExpiresAt time.Time
}
