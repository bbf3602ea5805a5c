package utils

import (
	"net/http"
	"time"
)

const SessionCookieName = "token"

// SetSessionCookie writes the session token. Production cookies are Secure
// with SameSite=None so a separately hosted client can send them.
func SetSessionCookie(w http.ResponseWriter, value string, maxAge time.Duration, production bool) {
	c := sessionCookie(production)
	c.Value = value
	c.MaxAge = int(maxAge / time.Second)
	c.Expires = time.Now().Add(maxAge)
	http.SetCookie(w, c)
}

// ClearSessionCookie expires the cookie with the attributes it was set with.
func ClearSessionCookie(w http.ResponseWriter, production bool) {
	c := sessionCookie(production)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func sessionCookie(production bool) *http.Cookie {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
