package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"fx-rates-service/internal/application/services"
	"fx-rates-service/internal/domain/freshness"
	"fx-rates-service/internal/domain/interfaces"
	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/display"
	"fx-rates-service/internal/infrastructure/exchange"
	"fx-rates-service/internal/infrastructure/exchange/coingecko"
	"fx-rates-service/internal/infrastructure/exchange/exchangerate"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"
	"fx-rates-service/internal/infrastructure/repositories/cache"
	"fx-rates-service/internal/infrastructure/web/handlers"
	"fx-rates-service/internal/infrastructure/web/server"
)

// se sobreescriben con -ldflags "-X main.version=... -X main.buildTime=..."
var (
	version   = "1.0.0"
	buildTime = "unknown"
)

// @title FX Rates Service API
// @version 1.0
// @description Cached exchange rates relative to USD with periodic refresh, stale-but-serve fallback and currency conversion.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loggerConfig := logging.ConfigFromValues("fx-rates-service", version, config.GetEnvironment(), cfg.Logging.Level, cfg.Logging.Format)
	if err := logging.InitializeGlobalLoggers(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	ctx := logging.EnsureRequestID(context.Background())
	startedAt := time.Now()
	metrics.SetApplicationInfo(version, buildTime, runtime.Version())

	logging.Info(ctx, "Starting FX rates service", logging.Fields{
		"version":       version,
		"cache_backend": cfg.Cache.Backend,
		"ttl":           cfg.Cache.TTL.String(),
		"currencies":    cfg.Display.Currencies,
		"mock_mode":     cfg.Development.MockMode,
	})

	backend, err := cache.NewFactory().Create(ctx, cfg.Cache)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to create rate store backend", err, nil)
		os.Exit(1)
	}
	defer backend.Close()

	store := cache.NewRateStore(backend, cfg.Cache.Key)
	source := newRateSource(ctx, cfg)

	clock := services.SystemClock{}
	rateCache := services.NewRateCache(store, source, services.RateCacheConfig{
		TTL:      cfg.Cache.TTL,
		Coalesce: cfg.Cache.CoalesceRefreshes,
		Clock:    clock,
	})

	// sinks de display: se suscriben antes del primer refresh
	formatter := display.NewFormatter(cfg.Display.Currencies, time.Local)
	board := display.NewBoard(formatter)
	rateCache.Subscribe(board)
	rateCache.Subscribe(display.NewLogSink(formatter))

	var hub *display.Hub
	var ratesWS http.Handler
	if cfg.Display.WebSocket {
		hub = display.NewHub(formatter, board)
		rateCache.Subscribe(hub)
		ratesWS = hub
	}

	// interfaz nil (no un *coingecko.Client nil) cuando está deshabilitado
	var crypto interfaces.CryptoSource
	if cfg.Provider.Crypto.Enabled && !cfg.Development.MockMode {
		crypto = coingecko.NewClient(cfg.Provider.Crypto)
	}

	policy := freshness.NewPolicy(cfg.Cache.TTL)
	router := server.NewRouter(server.RouterConfig{
		Health: handlers.NewHealthHandler(backend, rateCache, policy, clock),
		Rates: handlers.NewRatesHandler(handlers.RatesHandlerConfig{
			Service:    rateCache,
			Converter:  services.NewConverter(rateCache),
			Board:      board,
			Crypto:     crypto,
			Policy:     policy,
			Clock:      clock,
			Currencies: cfg.Display.Currencies,
		}),
		RatesWS:   ratesWS,
		Server:    cfg.Server,
		RateLimit: cfg.RateLimit,
	})

	httpServer := server.NewServer(router, cfg.Server)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithError(ctx, "HTTP server failed", err, nil)
			os.Exit(1)
		}
	}()

	scheduler := services.NewScheduler(rateCache, cfg.RefreshInterval(), cfg.Scheduler.Enabled)
	if err := scheduler.Start(ctx); err != nil {
		logging.ErrorWithError(ctx, "Failed to start refresh scheduler", err, nil)
	}

	uptimeCtx, stopUptime := context.WithCancel(ctx)
	go reportUptime(uptimeCtx, startedAt)

	logging.Info(ctx, "FX rates service is running", logging.Fields{
		"port":      cfg.Server.Port,
		"scheduler": scheduler.Running(),
		"interval":  cfg.RefreshInterval().String(),
		"websocket": cfg.Display.WebSocket,
		"crypto":    crypto != nil,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logging.Info(ctx, "Shutting down", logging.Fields{"signal": sig.String()})

	stopUptime()
	scheduler.Stop()
	if hub != nil {
		hub.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(ctx, "Server forced to shutdown", err, nil)
	}

	logging.Info(ctx, "Shutdown completed", logging.Fields{
		"uptime": time.Since(startedAt).Round(time.Second).String(),
	})
}

// newRateSource elige el proveedor real o el mock para desarrollo
func newRateSource(ctx context.Context, cfg *config.Config) interfaces.RateSource {
	if cfg.Development.MockMode {
		logging.Warn(ctx, "Mock mode enabled, rates are simulated", nil)
		return exchange.NewMockSource()
	}
	return exchangerate.NewClientWithConfig(cfg.Provider, cfg.Display.BaseCurrency)
}

// reportUptime actualiza el gauge de uptime hasta que se cancela ctx
func reportUptime(ctx context.Context, startedAt time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateUptime(time.Since(startedAt).Seconds())
		}
	}
}
