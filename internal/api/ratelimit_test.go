package api

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests refused")
	}
	if rl.Allow("a") {
		t.Fatal("third request allowed")
	}
	if !rl.Allow("b") {
		t.Fatal("clients share a bucket")
	}
	// Two per minute refill one token every 30s.
	if got := rl.RetryAfter("a"); got < 30 || got > 31 {
		t.Fatalf("RetryAfter=%d want ~30", got)
	}
	if rl.Allow("a") {
		t.Fatal("RetryAfter spent a token")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("window did not reset")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:5555"
	if got := clientIP(r); got != "10.0.0.7" {
		t.Fatalf("remote addr: %q", got)
	}
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Fatalf("forwarded: %q", got)
	}
}
