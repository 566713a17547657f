package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitMiddleware is a sliding-window limiter keyed by client IP.
type RateLimitMiddleware struct {
	requests    map[string][]time.Time
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	now         func() time.Time

	// TrustProxy keys clients by X-Forwarded-For / X-Real-IP. Only enable it
	// behind a proxy that overwrites those headers.
	TrustProxy bool
}

// NewRateLimitMiddleware allows maxRequests per client within window.
func NewRateLimitMiddleware(maxRequests int, window time.Duration) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
}

// allow records a request from client and reports whether it is within the
// limit. When it is not, the returned duration is when the oldest request
// leaves the window.
func (m *RateLimitMiddleware) allow(client string) (bool, time.Duration) {
	now := m.now()
	windowStart := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.requests[client][:0]
	for _, ts := range m.requests[client] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= m.maxRequests {
		m.requests[client] = kept
		return false, kept[0].Sub(windowStart)
	}
	m.requests[client] = append(kept, now)
	return true, 0
}

// Sweep drops clients with no request inside the window.
func (m *RateLimitMiddleware) Sweep() {
	windowStart := m.now().Add(-m.window)
	m.mu.Lock()
	defer m.mu.Unlock()
	for client, timestamps := range m.requests {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(windowStart) {
			delete(m.requests, client)
		}
	}
}

// RateLimit rejects requests over the limit with 429.
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, retry := m.allow(getClientIP(r, m.TrustProxy))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request. Forwarding headers are
// client-controlled, so they are read only when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
			return strings.TrimSpace(strings.Split(ip, ",")[0])
		}
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
