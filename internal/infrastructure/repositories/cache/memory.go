package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value    string
	deadline time.Time // cero: sin expiración
}

func (e memEntry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

// MemoryCache es el backend por defecto: el slot vive mientras viva el proceso.
// Las claves vencidas se borran al leerlas y en cada Set.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", ErrKeyNotFound
	}
	if !e.expired(c.now()) {
		return e.value, nil
	}

	c.mu.Lock()
	// otro Set pudo reemplazarla entre los dos locks
	if cur, ok := c.entries[key]; ok && cur.expired(c.now()) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return "", ErrKeyExpired
}

// Set reemplaza el valor completo; ttl <= 0 no expira
func (c *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	now := c.now()
	e := memEntry{value: value}
	if ttl > 0 {
		e.deadline = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, old := range c.entries {
		if old.expired(now) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = e
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Ping solo falla con el contexto cancelado
func (c *MemoryCache) Ping(ctx context.Context) error { return ctx.Err() }
func (c *MemoryCache) Close() error                   { return nil }
func (c *MemoryCache) Name() string                   { return string(BackendMemory) }

// Size cuenta claves presentes, vencidas incluidas
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
