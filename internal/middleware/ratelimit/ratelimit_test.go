package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *time.Time) {
	t.Helper()
	rl := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour})
	t.Cleanup(rl.Stop)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestLimiterWindow(t *testing.T) {
	rl, now := newTestLimiter(t, 2)

	for i, want := range []bool{true, true, false} {
		if got := rl.Allow("a"); got != want {
			t.Fatalf("request %d: Allow = %v, want %v", i+1, got, want)
		}
	}
	if !rl.Allow("b") {
		t.Fatal("clients must be counted separately")
	}
	if got := rl.RetryAfter("a"); got != 60 {
		t.Fatalf("RetryAfter = %d, want 60", got)
	}

	*now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("a new window must allow the client again")
	}
	if m := rl.GetMetrics(); m.TotalHits != 1 || m.ClientCount != 2 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestLimiterCleanup(t *testing.T) {
	rl, now := newTestLimiter(t, 5)
	rl.Allow("old")
	*now = now.Add(11 * time.Minute)
	rl.Allow("fresh")
	if removed := rl.cleanupStaleEntries(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if m := rl.GetMetrics(); m.ClientCount != 1 {
		t.Fatalf("ClientCount = %d, want 1", m.ClientCount)
	}
}

func TestMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1)
	key := func(*http.Request) string { return "client" }
	skip := func(r *http.Request) bool { return r.Method == http.MethodGet }
	h := rl.Middleware(key, skip, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodPost, http.StatusNoContent},
		{http.MethodGet, http.StatusNoContent},
		{http.MethodGet, http.StatusNoContent},
		{http.MethodPost, http.StatusTooManyRequests},
	}
	for i, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/", nil))
		if rr.Code != tt.want {
			t.Fatalf("request %d (%s): status %d, want %d", i+1, tt.method, rr.Code, tt.want)
		}
		if rr.Code == http.StatusTooManyRequests && rr.Header().Get("Retry-After") == "" {
			t.Fatal("missing Retry-After")
		}
	}
}
