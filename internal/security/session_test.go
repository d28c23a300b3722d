package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hobbyte/internal/models"
)

func TestNewSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewSessionID()
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
}

func TestOverHTTPS(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(r *http.Request)
		secure bool
	}{
		{name: "plain", setup: func(r *http.Request) {}},
		{name: "terminated by proxy", setup: func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }, secure: true},
		{name: "direct TLS", setup: func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, secure: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			if got := overHTTPS(r); got != tt.secure {
				t.Errorf("overHTTPS() = %v, want %v", got, tt.secure)
			}
			if got := SessionCookie(r, "session_id", &models.Session{ID: "x"}).Secure; got != tt.secure {
				t.Errorf("SessionCookie().Secure = %v, want %v", got, tt.secure)
			}
		})
	}
}

func TestSessionCookies(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	session := &models.Session{ID: "abc", UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}

	cookie := SessionCookie(r, "session_id", session)
	if cookie.Value != "abc" || !cookie.Expires.Equal(session.ExpiresAt) || !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("unexpected session cookie: %+v", cookie)
	}

	expired := ExpiredCookie(r, "session_id")
	if expired.MaxAge != -1 || expired.Value != "" || expired.Name != "session_id" {
		t.Errorf("unexpected expired cookie: %+v", expired)
	}
}
