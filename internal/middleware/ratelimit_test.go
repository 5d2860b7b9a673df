package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientIP(t *testing.T) {
	v6 := net.JoinHostPort("2001:db8::2", "443")
	tests := []struct {
		forwarded string
		remote    string
		want      string
	}{
		{forwarded: "203.0.113.1", remote: "198.51.100.10:1234", want: "203.0.113.1"},
		{forwarded: " 203.0.113.1 , 198.51.100.2 ", remote: "198.51.100.10:1234", want: "203.0.113.1"},
		{forwarded: "unknown, 198.51.100.2", remote: "198.51.100.10:1234", want: "198.51.100.2"},
		{forwarded: "invalid", remote: "198.51.100.10:1234", want: "198.51.100.10"},
		{remote: "198.51.100.10:1234", want: "198.51.100.10"},
		{forwarded: "2001:db8::1", remote: v6, want: "2001:db8::1"},
		{forwarded: "invalid", remote: v6, want: "2001:db8::2"},
		{remote: "203.0.113.1", want: "203.0.113.1"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remote
		if tc.forwarded != "" {
			req.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		if got := ClientIP(req); got != tc.want {
			t.Errorf("ClientIP(%q, %q) = %q, want %q", tc.forwarded, tc.remote, got, tc.want)
		}
	}
}

func TestRateLimitRejectsAfterLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/compose", nil)
		req.RemoteAddr = "198.51.100.7:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
		if rr.Code == http.StatusTooManyRequests && rr.Header().Get("Retry-After") == "" {
			t.Fatal("expected Retry-After header")
		}
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("status codes = %v", codes)
	}

	other := httptest.NewRequest(http.MethodPost, "/v1/compose", nil)
	other.RemoteAddr = "198.51.100.8:5555"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("other client status = %d, want 204", rr.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
	}
}

func TestLimiterRefills(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := newLimiter(2, time.Minute, start)

	steps := []struct {
		at       time.Duration
		key      string
		want     bool
		wantWait time.Duration
	}{
		{at: 0, key: "a", want: true},
		{at: 0, key: "a", want: true},
		{at: 0, key: "a", want: false, wantWait: 30 * time.Second},
		{at: 0, key: "b", want: true},
		{at: 10 * time.Second, key: "a", want: false, wantWait: 20 * time.Second},
		{at: 31 * time.Second, key: "a", want: true},
		{at: 31 * time.Second, key: "a", want: false, wantWait: 29 * time.Second},
		{at: 5 * time.Minute, key: "a", want: true},
		{at: 5 * time.Minute, key: "a", want: true},
	}
	for i, st := range steps {
		ok, wait := l.allow(st.key, start.Add(st.at))
		if ok != st.want {
			t.Fatalf("step %d: allow = %t, want %t", i, ok, st.want)
		}
		if !ok && (wait-st.wantWait).Abs() > time.Millisecond {
			t.Fatalf("step %d: wait = %v, want %v", i, wait, st.wantWait)
		}
	}
	if _, ok := l.clients["b"]; ok {
		t.Fatal("idle client was not swept")
	}
}

func TestRateLimitRetryAfterFollowsClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	handler := rateLimit(1, 10*time.Second, func() time.Time { return now })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/compile", nil)
		req.RemoteAddr = "198.51.100.9:4000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := send(); rr.Code != http.StatusNoContent {
		t.Fatalf("first status = %d", rr.Code)
	}
	now = now.Add(4 * time.Second)
	rr := send()
	if rr.Code != http.StatusTooManyRequests || rr.Header().Get("Retry-After") != "6" {
		t.Fatalf("limited = %d Retry-After %q", rr.Code, rr.Header().Get("Retry-After"))
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	now = now.Add(7 * time.Second)
	if rr := send(); rr.Code != http.StatusNoContent {
		t.Fatalf("after refill status = %d", rr.Code)
	}
}
