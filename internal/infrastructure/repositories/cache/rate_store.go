package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/domain/interfaces"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"
)

// DefaultRateKey es la clave fija del único slot
const DefaultRateKey = "fxrates:rates:USD"

// RateStore guarda la única CacheEntry serializada como JSON en cualquier
// interfaces.KeyValueStore. No valida la tabla: confía en quien escribe.
type RateStore struct {
	backend interfaces.KeyValueStore
	key     string
	logger  logging.StoreLogger
}

// NewRateStore crea el adaptador sobre backend usando key (DefaultRateKey si está vacía).
func NewRateStore(backend interfaces.KeyValueStore, key string) *RateStore {
	if key == "" {
		key = DefaultRateKey
	}
	return &RateStore{
		backend: backend,
		key:     key,
		logger:  logging.Store(),
	}
}

// Key devuelve la clave usada en el backend
func (s *RateStore) Key() string {
	return s.key
}

// Read devuelve la entrada almacenada. Un registro que no decodifica se trata
// como ausente: el próximo refresh lo sobrescribe.
func (s *RateStore) Read(ctx context.Context) (*entities.CacheEntry, bool, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if IsMiss(err) {
		metrics.RecordStoreOperation(logging.StoreOpRead, "miss")
		s.logger.EntryRead(ctx, s.key, "miss")
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordStoreOperation(logging.StoreOpRead, "error")
		s.logger.Failed(ctx, logging.StoreOpRead, s.key, err)
		return nil, false, fmt.Errorf("read rate entry: %w", err)
	}

	var entry entities.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || len(entry.Table.Rates) == 0 {
		metrics.RecordStoreOperation(logging.StoreOpRead, "corrupt")
		if err == nil {
			err = entities.ErrEmptyTable
		}
		s.logger.Failed(ctx, logging.StoreOpRead, s.key, fmt.Errorf("undecodable rate entry: %w", err))
		return nil, false, nil
	}

	metrics.RecordStoreOperation(logging.StoreOpRead, "hit")
	s.logger.EntryRead(ctx, s.key, "hit")
	return &entry, true, nil
}

// Write reemplaza la entrada completa; nunca mezcla con la anterior.
func (s *RateStore) Write(ctx context.Context, table *entities.RateTable, storedAtLocal int64) error {
	if table == nil {
		return entities.ErrNilRateTable
	}

	bytes, err := json.Marshal(entities.NewCacheEntry(table, storedAtLocal))
	if err != nil {
		return fmt.Errorf("encode rate entry: %w", err)
	}

	// sin TTL en el backend: la frescura la decide la política, no la expiración
	if err := s.backend.Set(ctx, s.key, string(bytes), 0); err != nil {
		metrics.RecordStoreOperation(logging.StoreOpWrite, "error")
		s.logger.Failed(ctx, logging.StoreOpWrite, s.key, err)
		return fmt.Errorf("write rate entry: %w", err)
	}

	metrics.RecordStoreOperation(logging.StoreOpWrite, "success")
	s.logger.EntryWritten(ctx, s.key, len(table.Rates))
	return nil
}

// Clear destruye la entrada persistida
func (s *RateStore) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		metrics.RecordStoreOperation(logging.StoreOpClear, "error")
		s.logger.Failed(ctx, logging.StoreOpClear, s.key, err)
		return fmt.Errorf("clear rate entry: %w", err)
	}
	metrics.RecordStoreOperation(logging.StoreOpClear, "success")
	s.logger.EntryCleared(ctx, s.key)
	return nil
}
