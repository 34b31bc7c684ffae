package logging

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fields son los campos estructurados de una línea de log
type Fields map[string]interface{}

// LogLevel es el nivel mínimo que se emite
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Nombres de campo compartidos por todos los loggers.
const (
	FieldRequestID = "request_id"
	FieldService   = "service"
	FieldVersion   = "version"
	FieldDomain    = "domain"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldDuration  = "duration_ms"

	FieldHTTPMethod    = "http_method"
	FieldHTTPPath      = "http_path"
	FieldHTTPStatus    = "http_status_code"
	FieldHTTPUserAgent = "http_user_agent"
	FieldHTTPRemoteIP  = "http_remote_ip"

	FieldProvider         = "provider"
	FieldProviderEndpoint = "provider_endpoint"
	FieldProviderStatus   = "provider_status_code"

	FieldStoreOp      = "store_op"
	FieldStoreKey     = "store_key"
	FieldStoreOutcome = "store_outcome"
	FieldStoreBackend = "store_backend"

	FieldBase       = "base"
	FieldCurrency   = "currency"
	FieldRatesCount = "rates_count"
	FieldVerdict    = "verdict"
	FieldAgeMs      = "age_ms"
	FieldFetchKind  = "fetch_error_kind"
	FieldDegraded   = "degraded"
)

// Operaciones sobre el slot persistido; coinciden con las etiquetas de métricas.
const (
	StoreOpRead  = "read"
	StoreOpWrite = "write"
	StoreOpClear = "clear"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	startTimeKey
)

// WithRequestID adjunta el request ID que después aparece en cada línea
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithStartTime marca el inicio del request; las líneas posteriores incluyen duration_ms.
func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey, startTime)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func startTimeFrom(ctx context.Context) (time.Time, bool) {
	if ctx == nil {
		return time.Time{}, false
	}
	t, ok := ctx.Value(startTimeKey).(time.Time)
	return t, ok && !t.IsZero()
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// merge copia base en un mapa nuevo y le agrega extra; nunca muta al llamador
func merge(base Fields, extra Fields) Fields {
	out := make(Fields, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// errorFields describe err con su mensaje y el tipo concreto más interno
func errorFields(err error) Fields {
	inner := err
	for {
		next := errors.Unwrap(inner)
		if next == nil {
			break
		}
		inner = next
	}
	return Fields{
		FieldError:     err.Error(),
		FieldErrorType: fmt.Sprintf("%T", inner),
	}
}
