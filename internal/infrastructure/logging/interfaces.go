package logging

import (
	"context"
	"time"
)

// Logger es el logger estructurado base. El contexto aporta request_id y duración.
type Logger interface {
	Debug(ctx context.Context, message string, fields Fields)
	Info(ctx context.Context, message string, fields Fields)
	Warn(ctx context.Context, message string, fields Fields)
	Error(ctx context.Context, message string, fields Fields)
	WarnWithError(ctx context.Context, message string, err error, fields Fields)
	ErrorWithError(ctx context.Context, message string, err error, fields Fields)

	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// HTTPLogger cubre el ciclo de vida de los requests entrantes
type HTTPLogger interface {
	Logger
	Received(ctx context.Context, method, path, userAgent, remoteIP string)
	Completed(ctx context.Context, method, path string, status int, elapsed time.Duration)
}

// ProviderLogger cubre las llamadas salientes a proveedores de tasas y precios
type ProviderLogger interface {
	Logger
	CallStarted(ctx context.Context, provider, endpoint string)
	CallSucceeded(ctx context.Context, provider, endpoint string, status int, elapsed time.Duration)
	CallFailed(ctx context.Context, provider, endpoint string, status int, err error, elapsed time.Duration)
}

// StoreLogger cubre el slot persistido de tasas
type StoreLogger interface {
	Logger
	EntryRead(ctx context.Context, key, outcome string)
	EntryWritten(ctx context.Context, key string, ratesCount int)
	EntryCleared(ctx context.Context, key string)
	Failed(ctx context.Context, op, key string, err error)
}

// RatesLogger cubre refresh y conversión
type RatesLogger interface {
	Logger
	RefreshServedFromCache(ctx context.Context, base string, ageMs int64)
	RefreshSucceeded(ctx context.Context, base string, ratesCount int, fetchedAtServer int64)
	RefreshDegraded(ctx context.Context, base, kind string, err error, servingStale bool)
	ConversionUnavailable(ctx context.Context, currency, reason string)
}
