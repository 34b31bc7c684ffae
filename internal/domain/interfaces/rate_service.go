package interfaces

import (
	"context"

	"fx-rates-service/internal/domain/entities"
)

// RateService define los casos de uso del cache de tasas
type RateService interface {
	// Refresh sirve desde cache si está fresco; si no, intenta un fetch.
	// Nunca retorna error: nil significa que no hay datos utilizables.
	Refresh(ctx context.Context) *entities.RateTable

	// ForceRefresh ignora la frescura y siempre intenta un fetch
	ForceRefresh(ctx context.Context) *entities.RateTable

	// Current es una lectura pura, nunca dispara tráfico de red
	Current(ctx context.Context) (*entities.CacheEntry, bool)

	// Clear borra la entrada persistida
	Clear(ctx context.Context) error
}

// RateReader is the read-only slice used by conversion and display.
type RateReader interface {
	Current(ctx context.Context) (*entities.CacheEntry, bool)
}

// Refresher is the slice of RateService the scheduler needs.
type Refresher interface {
	Refresh(ctx context.Context) *entities.RateTable
}

// Subscriber receives a snapshot after every refresh that reached the provider.
type Subscriber interface {
	OnSnapshot(ctx context.Context, snapshot entities.Snapshot)
}

// SubscriberFunc adapts a plain function to Subscriber.
type SubscriberFunc func(ctx context.Context, snapshot entities.Snapshot)

func (f SubscriberFunc) OnSnapshot(ctx context.Context, snapshot entities.Snapshot) {
	f(ctx, snapshot)
}

// ConversionService convierte montos de la moneda base usando la tabla almacenada
type ConversionService interface {
	Convert(ctx context.Context, amount float64, target string) (float64, bool)
	ConvertE(ctx context.Context, amount float64, target string) (float64, error)
	Format(amount float64, currency string) string
}

// CryptoSource looks up bitcoin/ethereum prices, one attempt per call.
type CryptoSource interface {
	Prices(ctx context.Context) (*entities.CryptoPrices, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
