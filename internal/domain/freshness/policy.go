// Package freshness decides whether a stored rate table can still be served
// without going back to the provider.
package freshness

import (
	"time"

	"fx-rates-service/internal/domain/entities"
)

// DefaultTTL is how long a stored table is considered usable.
const DefaultTTL = 10 * time.Minute

// Verdict is derived on every read and never stored.
type Verdict int

const (
	Absent Verdict = iota
	Fresh
	Stale
)

func (v Verdict) String() string {
	switch v {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Classify returns Absent for a nil entry, Fresh while now-storedAt < ttl and
// Stale otherwise. The boundary now-storedAt == ttl is Stale.
//
// Only local wall-clock time is compared; the provider timestamp is ignored.
func Classify(entry *entities.CacheEntry, nowMs int64, ttl time.Duration) Verdict {
	if entry == nil {
		return Absent
	}
	if entry.AgeMillis(nowMs) < ttl.Milliseconds() {
		return Fresh
	}
	return Stale
}

// Policy binds a TTL so callers don't pass it around.
type Policy struct {
	TTL time.Duration
}

// NewPolicy falls back to DefaultTTL for non-positive values.
func NewPolicy(ttl time.Duration) Policy {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Policy{TTL: ttl}
}

func (p Policy) Classify(entry *entities.CacheEntry, nowMs int64) Verdict {
	return Classify(entry, nowMs, p.TTL)
}
