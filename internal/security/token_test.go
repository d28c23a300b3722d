package security

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}

	token, expiresAt, err := issuer.Issue(42, "player", "session-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expiry %v is not in the future", expiresAt)
	}

	identity, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.UserID != 42 || identity.SessionID != "session-1" {
		t.Errorf("Verify() = %+v, want user 42 on session-1", identity)
	}
}

func TestTokenRejected(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)
	other, _ := NewTokenIssuer("other-secret", time.Hour)
	expired, _ := NewTokenIssuer("test-secret", -time.Minute)

	foreign, _, _ := other.Issue(1, "player", "s")
	stale, _, _ := expired.Issue(1, "player", "s")
	sessionless, _, _ := issuer.Issue(1, "player", "")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"expired", stale},
		{"no session", sessionless},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token); err != ErrInvalidToken {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestRandomSecretWhenEmpty(t *testing.T) {
	a, err := NewTokenIssuer("", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	b, _ := NewTokenIssuer("", time.Hour)

	token, _, _ := a.Issue(7, "admin", "s")
	if _, err := b.Verify(token); err == nil {
		t.Error("token from one random secret verified with another")
	}
	if identity, err := a.Verify(token); err != nil || identity.UserID != 7 {
		t.Errorf("Verify() = %+v, %v; want user 7", identity, err)
	}
}
