package interfaces

import (
	"context"
	"time"

	"fx-rates-service/internal/domain/entities"
)

// KeyValueStore is the persistence surface: opaque string values by string key.
// A ttl of zero means the value does not expire.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RateStore owns the single persisted CacheEntry.
type RateStore interface {
	Read(ctx context.Context) (*entities.CacheEntry, bool, error)
	Write(ctx context.Context, table *entities.RateTable, storedAtLocal int64) error
	Clear(ctx context.Context) error
}
