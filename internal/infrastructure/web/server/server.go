package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/logging"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
)

// routes se loguean al arrancar
var routes = []string{
	"GET /health", "GET /ready", "GET /metrics",
	"GET /api/v1/rates", "GET /api/v1/convert", "GET /api/v1/display", "GET /api/v1/crypto",
	"POST /api/v1/rates/refresh", "DELETE /api/v1/rates",
	"GET /ws/rates", "GET /swagger/",
}

// Server envuelve http.Server con arranque y parada logueados
type Server struct {
	srv *http.Server
}

func NewServer(handler http.Handler, cfg config.ServerConfig) *Server {
	return &Server{srv: &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}}
}

// Start bloquea hasta Stop; después de un Stop ordenado devuelve http.ErrServerClosed.
func (s *Server) Start() error {
	logging.Info(context.Background(), "HTTP server listening", logging.Fields{
		"addr":   s.srv.Addr,
		"routes": routes,
	})
	return s.srv.ListenAndServe()
}

// Stop espera a los requests en curso hasta que ctx vence
func (s *Server) Stop(ctx context.Context) error {
	logging.Info(ctx, "HTTP server draining", logging.Fields{"addr": s.srv.Addr})
	return s.srv.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.srv.Addr
}
