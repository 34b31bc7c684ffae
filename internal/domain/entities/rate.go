package entities

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultBaseCurrency es la moneda base contra la que se expresan todas las tasas
const DefaultBaseCurrency = "USD"

var (
	ErrEmptyTable    = errors.New("rate table has no rates")
	ErrInvalidRate   = errors.New("rate must be a positive finite number")
	ErrInvalidCode   = errors.New("invalid currency code")
	ErrUnknownRate   = errors.New("currency not present in rate table")
	ErrNilRateTable  = errors.New("rate table is nil")
	// ErrInvalidAmount: NaN o ±Inf no se convierten
	ErrInvalidAmount = errors.New("amount must be a finite number")
)

// RateTable holds the rates of one unit of Base expressed in each currency.
type RateTable struct {
	Base             string             `json:"base"`
	Rates            map[string]float64 `json:"rates"`
	FetchedAtServer  int64              `json:"fetched_at_server"`  // epoch seconds, provider supplied
	RetrievedAtLocal int64              `json:"retrieved_at_local"` // epoch milliseconds, client observed
}

// NewRateTable crea una tabla normalizando los códigos a mayúsculas
func NewRateTable(base string, rates map[string]float64, fetchedAtServer, retrievedAtLocal int64) *RateTable {
	normalized := make(map[string]float64, len(rates))
	for code, rate := range rates {
		normalized[NormalizeCode(code)] = rate
	}

	return &RateTable{
		Base:             NormalizeCode(base),
		Rates:            normalized,
		FetchedAtServer:  fetchedAtServer,
		RetrievedAtLocal: retrievedAtLocal,
	}
}

// Validate checks that the table is non-empty and every rate is > 0 and finite.
func (t *RateTable) Validate() error {
	if t == nil {
		return ErrNilRateTable
	}
	if len(t.Rates) == 0 {
		return ErrEmptyTable
	}
	for code, rate := range t.Rates {
		if code == "" {
			return fmt.Errorf("%w: empty code", ErrInvalidCode)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidRate, code, rate)
		}
	}
	return nil
}

// Rate returns the rate for code, if present.
func (t *RateTable) Rate(code string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	rate, ok := t.Rates[NormalizeCode(code)]
	return rate, ok
}

// Subset devuelve solo las monedas pedidas que existen en la tabla
func (t *RateTable) Subset(codes []string) map[string]float64 {
	out := make(map[string]float64, len(codes))
	if t == nil {
		return out
	}
	for _, code := range codes {
		if rate, ok := t.Rate(code); ok {
			out[NormalizeCode(code)] = rate
		}
	}
	return out
}

// Clone returns a deep copy so callers can't mutate the cached map.
func (t *RateTable) Clone() *RateTable {
	if t == nil {
		return nil
	}
	rates := make(map[string]float64, len(t.Rates))
	for code, rate := range t.Rates {
		rates[code] = rate
	}
	return &RateTable{
		Base:             t.Base,
		Rates:            rates,
		FetchedAtServer:  t.FetchedAtServer,
		RetrievedAtLocal: t.RetrievedAtLocal,
	}
}

// CacheEntry is the single persisted record: a table plus the local time it was stored.
type CacheEntry struct {
	Table         RateTable `json:"table"`
	StoredAtLocal int64     `json:"stored_at_local"` // epoch milliseconds
}

// NewCacheEntry wraps table with its storage timestamp.
func NewCacheEntry(table *RateTable, storedAtLocal int64) *CacheEntry {
	return &CacheEntry{
		Table:         *table.Clone(),
		StoredAtLocal: storedAtLocal,
	}
}

// AgeMillis returns how long ago the entry was stored relative to nowMs.
func (e *CacheEntry) AgeMillis(nowMs int64) int64 {
	return nowMs - e.StoredAtLocal
}

// NormalizeCode upper-cases and trims an ISO-4217-like code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
