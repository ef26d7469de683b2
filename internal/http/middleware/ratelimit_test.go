package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(rate float64, burst int) (*RateLimiter, *time.Time) {
	now := time.Now()
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		burst:   burst,
		now:     func() time.Time { return now },
	}
	return rl, &now
}

func TestRateLimiterBurstThenReject(t *testing.T) {
	rl, _ := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request beyond burst should be rejected")
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	rl, now := newTestLimiter(1, 1)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("bucket should be empty")
	}

	*now = now.Add(2 * time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("bucket should have refilled after the elapsed time")
	}
}

func TestRateLimiterPerIPIsolation(t *testing.T) {
	rl, _ := newTestLimiter(1, 1)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first ip should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("first ip should be exhausted")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("second ip should have its own bucket")
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	mw := RateLimit(1, 1)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.Header.Set("X-Real-Ip", "9.9.9.9")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
}
