package server

import (
	"net/http"

	_ "fx-rates-service/internal/docs" // registra el documento OpenAPI
	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/metrics"
	"fx-rates-service/internal/infrastructure/ratelimit"
	"fx-rates-service/internal/infrastructure/web/handlers"
	"fx-rates-service/internal/infrastructure/web/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RouterConfig contiene todo lo que el router necesita; RatesWS puede ser nil
type RouterConfig struct {
	Health    *handlers.HealthHandler
	Rates     *handlers.RatesHandler
	RatesWS   http.Handler
	Server    config.ServerConfig
	RateLimit config.RateLimitConfig
}

// NewRouter wires every endpoint and the middleware chain. CORS wraps the
// router so preflight requests never reach route matching or auth.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// el orden importa: tracing pone el request ID que usan los demás
	r.Use(middleware.RequestTracingMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(metrics.HTTPMetricsMiddleware)

	r.HandleFunc("/health", cfg.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", cfg.Health.Ready).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(ratelimit.NewMiddleware(cfg.RateLimit).Handler)
	api.HandleFunc("/rates", cfg.Rates.GetRates).Methods(http.MethodGet)
	api.HandleFunc("/convert", cfg.Rates.Convert).Methods(http.MethodGet)
	api.HandleFunc("/display", cfg.Rates.GetDisplay).Methods(http.MethodGet)
	api.HandleFunc("/crypto", cfg.Rates.GetCrypto).Methods(http.MethodGet)

	// administración: refresh manual y limpieza del cache
	auth := middleware.NewAuthMiddleware(cfg.Server.Auth)
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.Handler)
	admin.HandleFunc("/rates/refresh", cfg.Rates.RefreshRates).Methods(http.MethodPost)
	admin.HandleFunc("/rates", cfg.Rates.ClearRates).Methods(http.MethodDelete)

	if cfg.RatesWS != nil {
		r.Handle("/ws/rates", cfg.RatesWS).Methods(http.MethodGet)
	}

	r.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/docs", http.RedirectHandler("/swagger/", http.StatusMovedPermanently))

	return middleware.CORSMiddleware(cfg.Server.CORSOrigins)(r)
}
