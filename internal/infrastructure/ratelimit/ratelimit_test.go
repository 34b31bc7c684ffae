package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fx-rates-service/internal/application/dto"
	"fx-rates-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time          { return c.t }
func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(refill float64, burst int) (*ClientLimiter, *stepClock) {
	clock := &stepClock{t: time.Unix(1_700_000_000, 0)}
	l := NewClientLimiter(refill, burst)
	l.now = clock.now
	l.lastSweep = clock.t
	return l, clock
}

func TestClientLimiter_BurstThenRefill(t *testing.T) {
	l, clock := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		allowed, remaining := l.Allow("10.0.0.1")
		require.True(t, allowed, "request %d", i)
		assert.Equal(t, 2-i, remaining)
	}

	allowed, remaining := l.Allow("10.0.0.1")
	assert.False(t, allowed)
	assert.Zero(t, remaining)

	// otro cliente tiene su propio bucket
	allowed, _ = l.Allow("10.0.0.2")
	assert.True(t, allowed)

	clock.advance(time.Second)
	allowed, _ = l.Allow("10.0.0.1")
	assert.True(t, allowed)
}

func TestClientLimiter_SweepsIdleClients(t *testing.T) {
	l, clock := newTestLimiter(10, 10)

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.Clients())

	clock.advance(idleTTL)
	l.Allow("c")

	assert.Equal(t, 1, l.Clients())
}

func TestClientLimiter_RetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		refill float64
		want   time.Duration
	}{
		{name: "diez por segundo", refill: 10, want: time.Second},
		{name: "uno cada cuatro segundos", refill: 0.25, want: 4 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _ := newTestLimiter(tt.refill, 1)
			assert.Equal(t, tt.want, l.RetryAfter())
		})
	}
}

func TestMiddleware_Handler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("deshabilitado", func(t *testing.T) {
		m := NewMiddleware(config.RateLimitConfig{Enabled: false})
		for i := 0; i < 5; i++ {
			rec := httptest.NewRecorder()
			m.Handler(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/rates", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Zero(t, m.Clients())
	})

	t.Run("excede el límite", func(t *testing.T) {
		m := NewMiddleware(config.RateLimitConfig{Enabled: true, Capacity: 2, RefillRate: 0.5})
		handler := m.Handler(next)

		var last *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/rates/refresh", nil)
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			last = httptest.NewRecorder()
			handler.ServeHTTP(last, req)
		}

		require.Equal(t, http.StatusTooManyRequests, last.Code)
		assert.Equal(t, "2", last.Header().Get("Retry-After"))
		assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(last.Body.Bytes(), &resp))
		assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Error)
		assert.Equal(t, 1, m.Clients())
	})
}

func TestGetClientID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:54321"
	assert.Equal(t, "192.0.2.1", getClientID(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientID(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", getClientID(req))
}
