package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fx-rates-service/internal/infrastructure/config"

	"github.com/redis/go-redis/v9"
)

// redisCmdable son los comandos que usa el slot de tasas; *redis.Client lo cumple.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache persiste el slot fuera del proceso para que sobreviva reinicios
// y lo compartan varias réplicas.
type RedisCache struct {
	client redisCmdable
	addr   string
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.Timeout > 0 {
		opts.DialTimeout = cfg.Timeout
		opts.ReadTimeout = cfg.Timeout
		opts.WriteTimeout = cfg.Timeout
	}
	rc := NewRedisCacheWithClient(redis.NewClient(opts))
	rc.addr = cfg.Addr
	return rc
}

// NewRedisCacheWithClient acepta un cliente ya construido (tests, clusters)
func NewRedisCacheWithClient(client redisCmdable) *RedisCache {
	return &RedisCache{client: client}
}

// Get traduce redis.Nil a ErrKeyNotFound; cualquier otro error se envuelve.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", ErrKeyNotFound
	case err != nil:
		return "", fmt.Errorf("redis GET %s: %w", key, err)
	}
	return val, nil
}

// Set con ttl <= 0 deja la clave sin expiración
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Name() string {
	return string(BackendRedis)
}

// Addr es la dirección configurada; vacía si se construyó con un cliente externo
func (r *RedisCache) Addr() string {
	return r.addr
}
