package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fx-rates-service/internal/domain/interfaces"
	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"

	"github.com/avast/retry-go/v4"
)

// BackendType represents the type of cache implementation
type BackendType string

const (
	BackendMemory BackendType = "memory"
	BackendRedis  BackendType = "redis"
)

const pingTimeout = 5 * time.Second

// Backend is a key-value store that can be health-checked and closed
type Backend interface {
	interfaces.KeyValueStore
	Ping(ctx context.Context) error
	Close() error
	Name() string
}

// Factory provides methods to create cache instances
type Factory struct {
	// newRedis se reemplaza en tests
	newRedis func(cfg config.RedisConfig) *RedisCache
}

// NewFactory creates a new cache factory
func NewFactory() *Factory {
	return &Factory{
		newRedis: func(cfg config.RedisConfig) *RedisCache {
			return NewRedisCache(cfg)
		},
	}
}

// Create builds the backend named in cfg.Backend
func (f *Factory) Create(ctx context.Context, cfg config.CacheConfig) (Backend, error) {
	switch BackendType(strings.ToLower(cfg.Backend)) {
	case BackendMemory:
		logging.Info(ctx, "Creating memory cache", logging.Fields{
			logging.FieldStoreBackend: "memory",
		})
		return NewMemoryCache(), nil

	case BackendRedis:
		logging.Info(ctx, "Creating Redis cache", logging.Fields{
			logging.FieldStoreBackend: "redis",
			"addr":                    cfg.Redis.Addr,
			"database":                cfg.Redis.DB,
		})
		return f.createRedisCache(ctx, cfg.Redis)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, cfg.Backend)
	}
}

// createRedisCache creates the client and waits for the first PONG.
// Solo el arranque reintenta; las lecturas y escrituras no.
func (f *Factory) createRedisCache(ctx context.Context, cfg config.RedisConfig) (Backend, error) {
	rc := f.newRedis(cfg)

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			defer cancel()
			return rc.Ping(pingCtx)
		},
		retry.Attempts(attempts),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			metrics.RecordRedisConnectRetry()
			logging.WarnWithError(ctx, "Redis not reachable yet, retrying", err, logging.Fields{
				"attempt": n + 1,
				"addr":    cfg.Addr,
			})
		}),
	)
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}

	logging.Info(ctx, "Redis connection established successfully", logging.Fields{
		"addr":     cfg.Addr,
		"database": cfg.DB,
	})
	return rc, nil
}
