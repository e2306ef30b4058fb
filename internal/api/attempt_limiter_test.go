package api

import (
	"net/http"
	"testing"
	"time"
)

func TestLoginAttemptLimiterWindowAndReset(t *testing.T) {
	t.Parallel()

	limiter := newLoginAttemptLimiter(1, time.Hour)
	key := "127.0.0.1|mom@example.com"
	now := time.Now().UTC()

	limiter.fail(key, now.Add(-2*time.Hour))
	if limiter.blocked(key, now) {
		t.Fatal("expected old failure to be pruned from active window")
	}

	limiter.fail(key, now.Add(-30*time.Minute))
	if !limiter.blocked(key, now) {
		t.Fatal("expected one recent failure to hit limit 1")
	}
	if limiter.blocked("127.0.0.1|other@example.com", now) {
		t.Fatal("expected other accounts unaffected")
	}

	limiter.succeed(key)
	if limiter.blocked(key, now) {
		t.Fatal("expected no failures after successful login")
	}
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	server := newTestServer(t)
	server.register("mom@example.com")
	server.handler.loginLimiter = newLoginAttemptLimiter(2, time.Hour)

	for attempt := 0; attempt < 2; attempt++ {
		response := server.do(http.MethodPost, "/api/auth/login", map[string]any{
			"email": "mom@example.com", "password": "WrongPass1",
		}, nil)
		if response.status != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", attempt, response.status)
		}
	}

	response := server.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email": "mom@example.com", "password": "StrongPass1",
	}, nil)
	if response.status != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after repeated failures, got %d: %s", response.status, response.raw)
	}
	if response.body["error"] != "Too many sign-in attempts. Try again later." {
		t.Fatalf("unexpected throttle message %#v", response.body["error"])
	}
}
