package logging

import (
	"context"
	"time"
)

// scoped agrega el campo domain a todo lo que emite el logger base
type scoped struct {
	base   Logger
	domain string
}

func (s scoped) tag(fields Fields) Fields {
	return merge(fields, Fields{FieldDomain: s.domain})
}

func (s scoped) Debug(ctx context.Context, message string, fields Fields) {
	s.base.Debug(ctx, message, s.tag(fields))
}

func (s scoped) Info(ctx context.Context, message string, fields Fields) {
	s.base.Info(ctx, message, s.tag(fields))
}

func (s scoped) Warn(ctx context.Context, message string, fields Fields) {
	s.base.Warn(ctx, message, s.tag(fields))
}

func (s scoped) Error(ctx context.Context, message string, fields Fields) {
	s.base.Error(ctx, message, s.tag(fields))
}

func (s scoped) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	s.base.WarnWithError(ctx, message, err, s.tag(fields))
}

func (s scoped) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	s.base.ErrorWithError(ctx, message, err, s.tag(fields))
}

func (s scoped) SetLevel(level LogLevel) { s.base.SetLevel(level) }
func (s scoped) GetLevel() LogLevel      { return s.base.GetLevel() }

type httpLogger struct{ scoped }

func NewHTTPLogger(base Logger) HTTPLogger {
	return httpLogger{scoped{base: base, domain: "http"}}
}

func (l httpLogger) Received(ctx context.Context, method, path, userAgent, remoteIP string) {
	l.Debug(ctx, "HTTP request received", Fields{
		FieldHTTPMethod:    method,
		FieldHTTPPath:      path,
		FieldHTTPUserAgent: userAgent,
		FieldHTTPRemoteIP:  remoteIP,
	})
}

// Completed sube de nivel según el status: 4xx es WARN y 5xx es ERROR
func (l httpLogger) Completed(ctx context.Context, method, path string, status int, elapsed time.Duration) {
	fields := Fields{
		FieldHTTPMethod: method,
		FieldHTTPPath:   path,
		FieldHTTPStatus: status,
		FieldDuration:   millis(elapsed),
	}
	switch {
	case status >= 500:
		l.Error(ctx, "HTTP request completed", fields)
	case status >= 400:
		l.Warn(ctx, "HTTP request completed", fields)
	default:
		l.Info(ctx, "HTTP request completed", fields)
	}
}

type providerLogger struct{ scoped }

func NewProviderLogger(base Logger) ProviderLogger {
	return providerLogger{scoped{base: base, domain: "provider"}}
}

func (l providerLogger) CallStarted(ctx context.Context, provider, endpoint string) {
	l.Debug(ctx, "Provider call started", Fields{
		FieldProvider:         provider,
		FieldProviderEndpoint: endpoint,
	})
}

func (l providerLogger) CallSucceeded(ctx context.Context, provider, endpoint string, status int, elapsed time.Duration) {
	l.Info(ctx, "Provider call succeeded", Fields{
		FieldProvider:         provider,
		FieldProviderEndpoint: endpoint,
		FieldProviderStatus:   status,
		FieldDuration:         millis(elapsed),
	})
}

func (l providerLogger) CallFailed(ctx context.Context, provider, endpoint string, status int, err error, elapsed time.Duration) {
	l.WarnWithError(ctx, "Provider call failed", err, Fields{
		FieldProvider:         provider,
		FieldProviderEndpoint: endpoint,
		FieldProviderStatus:   status,
		FieldDuration:         millis(elapsed),
	})
}

type storeLogger struct{ scoped }

func NewStoreLogger(base Logger) StoreLogger {
	return storeLogger{scoped{base: base, domain: "store"}}
}

func (l storeLogger) EntryRead(ctx context.Context, key, outcome string) {
	l.Debug(ctx, "Rate entry read", Fields{
		FieldStoreOp:      StoreOpRead,
		FieldStoreKey:     key,
		FieldStoreOutcome: outcome,
	})
}

func (l storeLogger) EntryWritten(ctx context.Context, key string, ratesCount int) {
	l.Debug(ctx, "Rate entry written", Fields{
		FieldStoreOp:    StoreOpWrite,
		FieldStoreKey:   key,
		FieldRatesCount: ratesCount,
	})
}

func (l storeLogger) EntryCleared(ctx context.Context, key string) {
	l.Info(ctx, "Rate entry cleared", Fields{
		FieldStoreOp:  StoreOpClear,
		FieldStoreKey: key,
	})
}

func (l storeLogger) Failed(ctx context.Context, op, key string, err error) {
	l.ErrorWithError(ctx, "Rate store operation failed", err, Fields{
		FieldStoreOp:  op,
		FieldStoreKey: key,
	})
}

type ratesLogger struct{ scoped }

func NewRatesLogger(base Logger) RatesLogger {
	return ratesLogger{scoped{base: base, domain: "rates"}}
}

func (l ratesLogger) RefreshServedFromCache(ctx context.Context, base string, ageMs int64) {
	l.Debug(ctx, "Rates served from fresh cache", Fields{
		FieldBase:    base,
		FieldAgeMs:   ageMs,
		FieldVerdict: "fresh",
	})
}

func (l ratesLogger) RefreshSucceeded(ctx context.Context, base string, ratesCount int, fetchedAtServer int64) {
	l.Info(ctx, "Rates refreshed from provider", Fields{
		FieldBase:           base,
		FieldRatesCount:     ratesCount,
		"fetched_at_server": fetchedAtServer,
	})
}

// RefreshDegraded se emite en WARN tanto si hay tabla stale como si no hay nada
func (l ratesLogger) RefreshDegraded(ctx context.Context, base, kind string, err error, servingStale bool) {
	l.WarnWithError(ctx, "Rates refresh failed, running degraded", err, Fields{
		FieldBase:       base,
		FieldFetchKind:  kind,
		FieldDegraded:   true,
		"serving_stale": servingStale,
	})
}

func (l ratesLogger) ConversionUnavailable(ctx context.Context, currency, reason string) {
	l.Debug(ctx, "Conversion unavailable", Fields{
		FieldCurrency: currency,
		"reason":      reason,
	})
}
