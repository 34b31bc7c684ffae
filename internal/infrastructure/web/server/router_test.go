package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/domain/freshness"
	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/web/handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clockAt int64

func (c clockAt) NowMillis() int64 { return int64(c) }

// fakeRates sirve siempre la misma entrada
type fakeRates struct {
	entry    *entities.CacheEntry
	refreshN int
}

func (f *fakeRates) Refresh(context.Context) *entities.RateTable {
	f.refreshN++
	return f.entry.Table.Clone()
}

func (f *fakeRates) ForceRefresh(ctx context.Context) *entities.RateTable { return f.Refresh(ctx) }

func (f *fakeRates) Current(context.Context) (*entities.CacheEntry, bool) { return f.entry, true }

func (f *fakeRates) Clear(context.Context) error { return nil }

type noopPinger struct{}

func (noopPinger) Ping(context.Context) error { return nil }

type emptyBoard struct{}

func (emptyBoard) Latest() (entities.Snapshot, bool) { return entities.Snapshot{}, false }

func newTestRouter(t *testing.T, auth config.AuthConfig, limit config.RateLimitConfig) (http.Handler, *fakeRates) {
	t.Helper()
	now := int64(1_700_000_000_000)
	table := entities.NewRateTable("USD", map[string]float64{"EUR": 0.92}, 1_700_000_000, now)
	rates := &fakeRates{entry: entities.NewCacheEntry(table, now)}
	policy := freshness.NewPolicy(10 * time.Minute)

	router := NewRouter(RouterConfig{
		Health: handlers.NewHealthHandler(noopPinger{}, rates, policy, clockAt(now)),
		Rates: handlers.NewRatesHandler(handlers.RatesHandlerConfig{
			Service:    rates,
			Board:      emptyBoard{},
			Policy:     policy,
			Clock:      clockAt(now),
			Currencies: []string{"EUR"},
		}),
		Server:    config.ServerConfig{CORSOrigins: []string{"*"}, Auth: auth},
		RateLimit: limit,
	})
	return router, rates
}

func serve(router http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var apiKeyAuth = config.AuthConfig{Enabled: true, APIKey: "secret", HeaderName: "X-API-Key"}

func TestRouter_PublicEndpoints(t *testing.T) {
	router, rates := newTestRouter(t, apiKeyAuth, config.RateLimitConfig{})

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/health", http.StatusOK},
		{"/ready", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/v1/rates", http.StatusOK},
		{"/api/v1/display", http.StatusOK},
		{"/api/v1/crypto", http.StatusNotFound},
		{"/swagger/doc.json", http.StatusOK},
		{"/docs", http.StatusMovedPermanently},
		{"/ws/rates", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
	assert.Equal(t, 1, rates.refreshN)
}

func TestRouter_AdminRequiresAPIKey(t *testing.T) {
	router, rates := newTestRouter(t, apiKeyAuth, config.RateLimitConfig{})

	rec := serve(router, http.MethodPost, "/api/v1/rates/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, rates.refreshN)

	rec = serve(router, http.MethodDelete, "/api/v1/rates", http.Header{"X-Api-Key": {"secret"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(router, http.MethodPost, "/api/v1/rates/refresh", http.Header{"X-Api-Key": {"secret"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, rates.refreshN)
}

func TestRouter_PreflightSkipsAuth(t *testing.T) {
	router, _ := newTestRouter(t, apiKeyAuth, config.RateLimitConfig{})

	rec := serve(router, http.MethodOptions, "/api/v1/rates/refresh", http.Header{
		"Origin":                        {"http://board.local"},
		"Access-Control-Request-Method": {http.MethodPost},
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RateLimitsAPIOnly(t *testing.T) {
	router, _ := newTestRouter(t, config.AuthConfig{}, config.RateLimitConfig{Enabled: true, Capacity: 1, RefillRate: 0.1})

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/rates", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/api/v1/rates", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodPost, "/api/v1/rates/refresh", nil).Code)

	// health y métricas no consumen tokens
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", nil).Code)
	}
}
