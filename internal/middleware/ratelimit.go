package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// limiter is a per-client token bucket holding up to burst tokens that
// refill at burst tokens per window.
type limiter struct {
	mu        sync.Mutex
	burst     float64
	rate      float64 // tokens per second
	idle      time.Duration
	clients   map[string]*tokens
	lastSweep time.Time
}

type tokens struct {
	left float64
	seen time.Time
}

func newLimiter(burst int, per time.Duration, now time.Time) *limiter {
	return &limiter{
		burst:     float64(burst),
		rate:      float64(burst) / per.Seconds(),
		idle:      per,
		clients:   make(map[string]*tokens),
		lastSweep: now,
	}
}

// allow takes a token for key. When none is left it reports how long until
// the next one.
func (l *limiter) allow(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.idle {
		for k, c := range l.clients {
			if now.Sub(c.seen) > l.idle {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[key]
	if !ok {
		c = &tokens{left: l.burst, seen: now}
		l.clients[key] = c
	}
	if elapsed := now.Sub(c.seen).Seconds(); elapsed > 0 {
		c.left = math.Min(l.burst, c.left+elapsed*l.rate)
	}
	c.seen = now

	if c.left >= 1 {
		c.left--
		return true, 0
	}
	ms := math.Round((1 - c.left) / l.rate * 1000)
	return false, time.Duration(ms) * time.Millisecond
}

// RateLimit allows bursts of limit requests per client IP, refilled evenly
// over per. A non-positive limit disables the check.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return rateLimit(limit, per, time.Now)
}

func rateLimit(limit int, per time.Duration, clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 || per <= 0 {
			return next
		}
		l := newLimiter(limit, per, clock())
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			ok, wait := l.allow(ip, clock())
			if !ok {
				retry := int(math.Ceil(wait.Seconds()))
				if retry < 1 {
					retry = 1
				}
				LoggerFrom(r.Context(), zerolog.Nop()).Warn().Str("ip", ip).Int("retry_after", retry).Msg("rate limited")
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many requests"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
