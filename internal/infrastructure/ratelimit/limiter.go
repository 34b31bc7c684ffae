package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleTTL es cuánto sobrevive el bucket de un cliente sin tráfico
const idleTTL = 30 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter keeps one token bucket per client ID. Buckets start full.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewClientLimiter allows burst requests at once and refills refillRate per second.
func NewClientLimiter(refillRate float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		clients:   make(map[string]*clientBucket),
		limit:     rate.Limit(refillRate),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow consume un token del cliente y devuelve cuántos quedan
func (l *ClientLimiter) Allow(clientID string) (bool, int) {
	now := l.now()

	l.mu.Lock()
	bucket, ok := l.clients[clientID]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientID] = bucket
	}
	bucket.lastSeen = now
	l.sweepLocked(now)
	l.mu.Unlock()

	allowed := bucket.limiter.AllowN(now, 1)
	remaining := int(math.Max(0, math.Floor(bucket.limiter.TokensAt(now))))
	return allowed, remaining
}

// RetryAfter is the wait until one token is back, rounded up to whole seconds.
func (l *ClientLimiter) RetryAfter() time.Duration {
	if l.limit <= 0 {
		return time.Second
	}
	seconds := math.Ceil(1 / float64(l.limit))
	return time.Duration(seconds) * time.Second
}

// Burst returns the bucket capacity.
func (l *ClientLimiter) Burst() int {
	return l.burst
}

// Clients returns how many client buckets are tracked.
func (l *ClientLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// sweepLocked borra buckets inactivos, como mucho una vez por idleTTL
func (l *ClientLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	for id, bucket := range l.clients {
		if now.Sub(bucket.lastSeen) >= idleTTL {
			delete(l.clients, id)
		}
	}
	l.lastSweep = now
}
