package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"fx-rates-service/internal/application/dto"
	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"
)

// Middleware throttles API clients so bursts of refresh requests cannot drain
// the provider quota.
type Middleware struct {
	limiter *ClientLimiter
	enabled bool
}

// NewMiddleware creates the middleware; a disabled config passes everything through
func NewMiddleware(cfg config.RateLimitConfig) *Middleware {
	m := &Middleware{enabled: cfg.Enabled}
	if cfg.Enabled {
		m.limiter = NewClientLimiter(cfg.RefillRate, cfg.Capacity)
	}
	return m
}

// Handler returns the HTTP middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		clientID := getClientID(r)
		allowed, remaining := m.limiter.Allow(clientID)
		metrics.RecordRateLimitResult(allowed)

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limiter.Burst()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			logging.Warn(r.Context(), "Rate limit exceeded", logging.Fields{
				"client_id":  clientID,
				"path":       r.URL.Path,
				"method":     r.Method,
				"user_agent": r.Header.Get("User-Agent"),
			})
			m.writeRateLimitError(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Clients returns the number of tracked clients, 0 when disabled.
func (m *Middleware) Clients() int {
	if m.limiter == nil {
		return 0
	}
	return m.limiter.Clients()
}

// getClientID usa la primera IP de X-Forwarded-For, luego X-Real-IP, luego RemoteAddr sin puerto
func getClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (m *Middleware) writeRateLimitError(w http.ResponseWriter, r *http.Request) {
	retryAfter := int(m.limiter.RetryAfter().Seconds())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.WriteHeader(http.StatusTooManyRequests)

	response := dto.NewErrorResponseWithCode(
		"RATE_LIMIT_EXCEEDED",
		"Rate limit exceeded. Please slow down your requests.",
		strconv.Itoa(http.StatusTooManyRequests),
	)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.ErrorWithError(r.Context(), "Error encoding rate limit response", err, nil)
	}
}
