package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("fourth request within the window should be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other clients have their own bucket")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("ip") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("ip") {
		t.Fatal("second request should be rejected")
	}
	time.Sleep(20 * time.Millisecond)
	if !rl.Allow("ip") {
		t.Error("bucket should refill after the window")
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/auth/login", nil)
	r.RemoteAddr = "192.0.2.1:1234"
	if got := GetClientIP(r); got != "192.0.2.1" {
		t.Errorf("GetClientIP() = %q", got)
	}

	// Client supplied headers must not change the rate limit key
	r.Header.Set("X-Real-IP", "198.51.100.7")
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := GetClientIP(r); got != "192.0.2.1" {
		t.Errorf("GetClientIP() with forwarding headers = %q, want 192.0.2.1", got)
	}

	r.RemoteAddr = "192.0.2.5"
	if got := GetClientIP(r); got != "192.0.2.5" {
		t.Errorf("GetClientIP() without port = %q", got)
	}
}
