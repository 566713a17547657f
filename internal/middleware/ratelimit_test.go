package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewRateLimitMiddleware(2, time.Minute)
	m.now = func() time.Time { return clock }

	h := m.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/vehicles", nil)
		req.RemoteAddr = ip + ":51234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code)

	w := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "61", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code, "limits are per client")

	clock = clock.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, hit("10.0.0.1").Code, "window slides")
}

func TestRateLimit_Sweep(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewRateLimitMiddleware(5, time.Minute)
	m.now = func() time.Time { return clock }

	m.allow("10.0.0.1")
	clock = clock.Add(30 * time.Second)
	m.allow("10.0.0.2")
	clock = clock.Add(45 * time.Second)

	m.Sweep()
	assert.NotContains(t, m.requests, "10.0.0.1")
	assert.Contains(t, m.requests, "10.0.0.2")
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.7:4242"
	assert.Equal(t, "192.168.1.7", getClientIP(req, true))

	req.Header.Set("X-Real-IP", "172.16.0.9")
	assert.Equal(t, "172.16.0.9", getClientIP(req, true))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req, true))

	assert.Equal(t, "192.168.1.7", getClientIP(req, false), "headers ignored without a trusted proxy")
}

func TestRateLimit_ForwardedForRotation(t *testing.T) {
	m := NewRateLimitMiddleware(1, time.Minute)
	h := m.RateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hit := func(forwarded string) int {
		req := httptest.NewRequest("GET", "/api/vehicles", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("198.51.100.2"), "rotating the header does not reset the limit")

	m.TrustProxy = true
	assert.Equal(t, http.StatusOK, hit("198.51.100.3"))
	assert.Equal(t, http.StatusTooManyRequests, hit("198.51.100.3"))
}
