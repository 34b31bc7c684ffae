package cache

import (
	"context"
	"errors"
	"testing"

	"fx-rates-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func factoryWithClient(client *MockRedisClient) *Factory {
	f := NewFactory()
	f.newRedis = func(config.RedisConfig) *RedisCache {
		return NewRedisCacheWithClient(client)
	}
	return f
}

func TestFactory_Create_Memory(t *testing.T) {
	backend, err := NewFactory().Create(context.Background(), config.CacheConfig{Backend: "Memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, backend)
}

func TestFactory_Create_Unsupported(t *testing.T) {
	_, err := NewFactory().Create(context.Background(), config.CacheConfig{Backend: "memcached"})
	assert.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestFactory_Create_RedisRetriesUntilPong(t *testing.T) {
	client := new(MockRedisClient)
	client.On("Ping", mock.Anything).Return(errors.New("connection refused")).Twice()
	client.On("Ping", mock.Anything).Return(nil).Once()

	backend, err := factoryWithClient(client).Create(context.Background(), config.CacheConfig{
		Backend: "redis",
		Redis:   config.RedisConfig{Addr: "localhost:6379", ConnectAttempts: 3},
	})

	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, backend)
	client.AssertNumberOfCalls(t, "Ping", 3)
	client.AssertNotCalled(t, "Close")
}

func TestFactory_Create_RedisGivesUp(t *testing.T) {
	client := new(MockRedisClient)
	client.On("Ping", mock.Anything).Return(errors.New("connection refused"))
	client.On("Close").Return(nil)

	_, err := factoryWithClient(client).Create(context.Background(), config.CacheConfig{
		Backend: "redis",
		Redis:   config.RedisConfig{Addr: "localhost:6379", ConnectAttempts: 2},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis at localhost:6379")
	assert.Contains(t, err.Error(), "connection refused")
	client.AssertNumberOfCalls(t, "Ping", 2)
	client.AssertCalled(t, "Close")
}
