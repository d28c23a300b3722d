package security

import (
	"net/http"

	"github.com/google/uuid"

	"hobbyte/internal/models"
)

// NewSessionID returns a random identifier for a login session
func NewSessionID() string {
	return uuid.NewString()
}

// overHTTPS reports whether the client reached us over TLS, directly or
// through a proxy that terminated it.
func overHTTPS(r *http.Request) bool {
	return r.TLS != nil ||
		r.Header.Get("X-Forwarded-Proto") == "https" ||
		r.URL.Scheme == "https"
}

// SessionCookie carries the session id until the session expires
func SessionCookie(r *http.Request, name string, session *models.Session) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   overHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie tells the client to drop the named cookie
func ExpiredCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   overHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	}
}
