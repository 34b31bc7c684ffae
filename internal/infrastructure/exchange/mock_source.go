package exchange

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/infrastructure/logging"
)

// MockSource implementa interfaces.RateSource para development (mock_mode).
// Devuelve tasas falsas pero realistas, con variación aleatoria.
type MockSource struct {
	mu        sync.Mutex
	baseRates map[string]float64 // tasas base contra USD
	variance  float64            // variación porcentual para simular volatilidad
	failWith  entities.FetchErrorKind
	calls     int
	now       func() time.Time
}

// NewMockSource crea una nueva instancia del mock
func NewMockSource() *MockSource {
	return &MockSource{
		baseRates: map[string]float64{
			"USD": 1.0,
			"EUR": 0.92,
			"TRY": 34.10,
			"GBP": 0.79,
			"JPY": 149.50,
			"CHF": 0.88,
		},
		variance: 0.005, // ±0.5%
		now:      time.Now,
	}
}

// Fetch genera una tabla nueva o la falla configurada
func (m *MockSource) Fetch(ctx context.Context) entities.FetchOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if m.failWith != 0 {
		logging.Debug(ctx, "MockSource: simulating fetch failure", logging.Fields{
			logging.FieldFetchKind: m.failWith.String(),
		})
		return entities.Failure(m.failWith, 0, errors.New("simulated failure"))
	}

	rates := make(map[string]float64, len(m.baseRates))
	for code, base := range m.baseRates {
		if code == entities.DefaultBaseCurrency {
			rates[code] = base
			continue
		}
		variation := (rand.Float64()*2 - 1) * m.variance
		rates[code] = base * (1 + variation)
	}

	now := m.now()
	table := entities.NewRateTable(entities.DefaultBaseCurrency, rates, now.Unix(), now.UnixMilli())

	logging.Debug(ctx, "MockSource: generated mock rates", logging.Fields{
		logging.FieldRatesCount: len(rates),
	})
	return entities.Success(table)
}

// SetRate agrega o reemplaza una tasa base (útil para testing)
func (m *MockSource) SetRate(code string, rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseRates[entities.NormalizeCode(code)] = rate
}

// SetVariance configura la variación porcentual
func (m *MockSource) SetVariance(variance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variance = variance
}

// FailWith hace que los próximos Fetch fallen con kind; 0 vuelve a la normalidad
func (m *MockSource) FailWith(kind entities.FetchErrorKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = kind
}

// Calls returns how many times Fetch was invoked.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
