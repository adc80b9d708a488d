package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doFrom(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/query", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	h := RateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3})(okHandler())

	for i := 0; i < 3; i++ {
		rec := doFrom(h, "10.0.0.1:1234")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimiterRejectsOverBurst(t *testing.T) {
	h := RateLimiter(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})(okHandler())

	require.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:1234").Code)

	rec := doFrom(h, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Equal(t, "rate limit exceeded", body.Message)
}

func TestRateLimiterIsPerClient(t *testing.T) {
	h := RateLimiter(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})(okHandler())

	require.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:1234").Code)
	require.Equal(t, http.StatusTooManyRequests, doFrom(h, "10.0.0.1:5678").Code,
		"same IP, different port shares a bucket")
	assert.Equal(t, http.StatusOK, doFrom(h, "10.0.0.2:1234").Code,
		"different IP gets its own bucket")
}

func TestVisitorTableEvictsIdle(t *testing.T) {
	table := &visitorTable{
		visitors: make(map[string]*visitor),
		cfg:      RateLimitConfig{RequestsPerSecond: 1, Burst: 1},
	}
	table.get("10.0.0.1")
	table.get("10.0.0.2")
	table.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)

	table.evictIdle(10 * time.Minute)

	table.mu.Lock()
	defer table.mu.Unlock()
	assert.NotContains(t, table.visitors, "10.0.0.1")
	assert.Contains(t, table.visitors, "10.0.0.2")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:40222"
	assert.Equal(t, "192.168.1.9", clientIP(req))

	req.RemoteAddr = "no-port-here"
	assert.Equal(t, "no-port-here", clientIP(req))

	// Spoofable headers must not change the key.
	req.RemoteAddr = "192.168.1.9:40222"
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	assert.Equal(t, "192.168.1.9", clientIP(req))
}
