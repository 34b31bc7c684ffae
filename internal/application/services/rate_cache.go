package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/domain/freshness"
	"fx-rates-service/internal/domain/interfaces"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"

	"golang.org/x/sync/singleflight"
)

// ControllerState reports whether a refresh is in flight.
type ControllerState int

const (
	StateIdle ControllerState = iota
	StateRefreshing
)

func (s ControllerState) String() string {
	if s == StateRefreshing {
		return "refreshing"
	}
	return "idle"
}

const refreshKey = "refresh"

// SystemClock lee el reloj de pared local
type SystemClock struct{}

func (SystemClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// RateCacheConfig configures the controller. Coalesce colapsa refreshes
// superpuestos en un solo fetch compartido; false = last-write-wins.
type RateCacheConfig struct {
	TTL      time.Duration
	Coalesce bool
	Clock    interfaces.Clock
}

type subscription struct {
	id  int
	sub interfaces.Subscriber
}

// RateCache is the read-through controller over a RateStore and a RateSource.
type RateCache struct {
	store    interfaces.RateStore
	source   interfaces.RateSource
	policy   freshness.Policy
	clock    interfaces.Clock
	coalesce bool
	group    singleflight.Group
	inFlight atomic.Int32
	logger   logging.RatesLogger

	subsMu sync.RWMutex
	subs   []subscription
	nextID int
}

// NewRateCache creates the controller. A nil Clock uses SystemClock.
func NewRateCache(store interfaces.RateStore, source interfaces.RateSource, cfg RateCacheConfig) *RateCache {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &RateCache{
		store:    store,
		source:   source,
		policy:   freshness.NewPolicy(cfg.TTL),
		clock:    clock,
		coalesce: cfg.Coalesce,
		logger:   logging.Rates(),
	}
}

// TTL returns the configured freshness window
func (c *RateCache) TTL() time.Duration {
	return c.policy.TTL
}

// State is Refreshing while at least one fetch is in flight
func (c *RateCache) State() ControllerState {
	if c.inFlight.Load() > 0 {
		return StateRefreshing
	}
	return StateIdle
}

// Subscribe registers sub for every refresh that reached the provider.
// The returned func removes it.
func (c *RateCache) Subscribe(sub interfaces.Subscriber) func() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, sub: sub})

	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Refresh serves a Fresh entry from the store, otherwise fetches once.
// On failure the stored entry is left untouched and returned if present.
// Returns nil only when there is no usable data at all.
func (c *RateCache) Refresh(ctx context.Context) *entities.RateTable {
	entry := c.read(ctx)
	now := c.clock.NowMillis()
	verdict := c.policy.Classify(entry, now)
	metrics.RecordVerdict(verdict.String())

	if verdict == freshness.Fresh {
		age := entry.AgeMillis(now)
		metrics.RecordRefresh("cached")
		metrics.UpdateRateAge(float64(age) / 1000)
		c.logger.RefreshServedFromCache(ctx, entry.Table.Base, age)
		return entry.Table.Clone()
	}

	logging.Debug(ctx, "Stored rates not fresh, fetching", logging.Fields{
		logging.FieldVerdict: verdict.String(),
	})
	return c.fetch(ctx, entry, now)
}

// ForceRefresh skips the freshness check and always fetches.
func (c *RateCache) ForceRefresh(ctx context.Context) *entities.RateTable {
	return c.fetch(ctx, c.read(ctx), c.clock.NowMillis())
}

// Current is a pure read of the stored entry, fresh or stale.
func (c *RateCache) Current(ctx context.Context) (*entities.CacheEntry, bool) {
	entry := c.read(ctx)
	return entry, entry != nil
}

// Clear removes the stored entry
func (c *RateCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear rate cache: %w", err)
	}
	logging.Info(ctx, "Rate cache cleared", nil)
	return nil
}

// read convierte errores del backend en Absent: Refresh nunca falla
func (c *RateCache) read(ctx context.Context) *entities.CacheEntry {
	entry, ok, err := c.store.Read(ctx)
	if err != nil {
		logging.WarnWithError(ctx, "Rate store read failed, treating as absent", err, nil)
		return nil
	}
	if !ok {
		return nil
	}
	return entry
}

func (c *RateCache) fetch(ctx context.Context, prior *entities.CacheEntry, now int64) *entities.RateTable {
	if !c.coalesce {
		return c.fetchAndStore(ctx, prior, now)
	}

	// los que llegan mientras hay un fetch en vuelo reciben el mismo resultado;
	// el fetch compartido no hereda la cancelación de quien lo inició
	v, _, shared := c.group.Do(refreshKey, func() (interface{}, error) {
		return c.fetchAndStore(context.WithoutCancel(ctx), prior, now), nil
	})
	if shared {
		logging.Debug(ctx, "Refresh coalesced with in-flight fetch", nil)
	}
	table, _ := v.(*entities.RateTable)
	return table.Clone()
}

func (c *RateCache) fetchAndStore(ctx context.Context, prior *entities.CacheEntry, now int64) *entities.RateTable {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	outcome := c.source.Fetch(ctx)

	if outcome.OK() {
		table := outcome.Table
		if err := c.store.Write(ctx, table, now); err != nil {
			// la tabla es válida aunque no se haya persistido
			logging.ErrorWithError(ctx, "Failed to persist fetched rates", err, logging.Fields{
				logging.FieldBase: table.Base,
			})
		}

		metrics.RecordRefresh("fetched")
		metrics.UpdateRateAge(0)
		metrics.UpdateCurrentRates(table.Base, table.Rates)
		c.logger.RefreshSucceeded(ctx, table.Base, len(table.Rates), table.FetchedAtServer)

		c.notify(ctx, okSnapshot(table, now))
		return table.Clone()
	}

	fetchErr := outcome.Err
	if fetchErr == nil {
		fetchErr = entities.NewFetchError(entities.EmptyRates, 0, nil)
	}

	var stale *entities.RateTable
	base := entities.DefaultBaseCurrency
	if prior != nil {
		stale = prior.Table.Clone()
		base = prior.Table.Base
		metrics.RecordRefresh("stale")
	} else {
		metrics.RecordRefresh("unavailable")
	}
	c.logger.RefreshDegraded(ctx, base, fetchErr.Kind.String(), fetchErr, stale != nil)

	c.notify(ctx, unavailableSnapshot(base, fetchErr))
	return stale
}

// notify entrega en orden de suscripción; un subscriber que hace panic no corta a los demás
func (c *RateCache) notify(ctx context.Context, snapshot entities.Snapshot) {
	c.subsMu.RLock()
	subs := make([]subscription, len(c.subs))
	copy(subs, c.subs)
	c.subsMu.RUnlock()

	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Error(ctx, "Snapshot subscriber panicked", logging.Fields{
						"panic": fmt.Sprint(r),
					})
				}
			}()
			s.sub.OnSnapshot(ctx, snapshot)
		}()
	}
}

func okSnapshot(table *entities.RateTable, storedAt int64) entities.Snapshot {
	return entities.Snapshot{
		Status:    entities.SnapshotOK,
		Base:      table.Base,
		Rates:     table.Clone().Rates,
		FetchedAt: table.FetchedAtServer,
		StoredAt:  storedAt,
	}
}

func unavailableSnapshot(base string, err *entities.FetchError) entities.Snapshot {
	return entities.Snapshot{
		Status:    entities.SnapshotUnavailable,
		Base:      base,
		Error:     err.Error(),
		ErrorKind: err.Kind.String(),
	}
}
