package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(t *testing.T, level LogLevel) (*StructuredLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger, err := NewStructuredLogger(NewConfig("fx-test", "1.2.3", "testing", WithLevel(level), WithOutput(buf)))
	require.NoError(t, err)
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestStructuredLogger_JSONFields(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)
	ctx := WithRequestID(context.Background(), "req_abc")

	logger.Info(ctx, "hello", Fields{FieldCurrency: "EUR"})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0]["message"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, "fx-test", lines[0][FieldService])
	assert.Equal(t, "1.2.3", lines[0][FieldVersion])
	assert.Equal(t, "req_abc", lines[0][FieldRequestID])
	assert.Equal(t, "EUR", lines[0][FieldCurrency])
	assert.Contains(t, lines[0], "timestamp")
}

func TestStructuredLogger_LevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelWarn)
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["message"])
	assert.Equal(t, "error", lines[1]["message"])

	buf.Reset()
	logger.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, logger.GetLevel())
	logger.Debug(ctx, "debug", nil)
	assert.Len(t, decodeLines(t, buf), 1)
}

type kindError struct{}

func (kindError) Error() string { return "kind" }

func TestStructuredLogger_WithError(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)
	fields := Fields{"a": 1}

	logger.ErrorWithError(context.Background(), "failed", fmt.Errorf("wrap: %w", kindError{}), fields)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "wrap: kind", lines[0][FieldError])
	assert.Equal(t, "logging.kindError", lines[0][FieldErrorType])
	// caller's map is not mutated
	assert.NotContains(t, fields, FieldError)
}

func TestStructuredLogger_StartTimeAddsDuration(t *testing.T) {
	logger, buf := newBufferLogger(t, LevelInfo)
	ctx := WithStartTime(context.Background(), time.Now().Add(-50*time.Millisecond))

	logger.Info(ctx, "timed", nil)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.GreaterOrEqual(t, lines[0][FieldDuration].(float64), 50.0)
}

func TestDomainLoggers_AddDomain(t *testing.T) {
	base, buf := newBufferLogger(t, LevelDebug)

	NewStoreLogger(base).EntryRead(context.Background(), "fxrates:rates:USD", "miss")
	NewRatesLogger(base).RefreshDegraded(context.Background(), "USD", "bad_status", errors.New("HTTP 503"), true)
	NewProviderLogger(base).CallSucceeded(context.Background(), "exchangerate-api", "/v4/latest/USD", 200, 1500*time.Microsecond)

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "store", lines[0][FieldDomain])
	assert.Equal(t, "miss", lines[0][FieldStoreOutcome])
	assert.Equal(t, StoreOpRead, lines[0][FieldStoreOp])
	assert.Equal(t, "rates", lines[1][FieldDomain])
	assert.Equal(t, "warning", lines[1]["level"])
	assert.Equal(t, true, lines[1]["serving_stale"])
	assert.Equal(t, "provider", lines[2][FieldDomain])
	assert.Equal(t, 1.5, lines[2][FieldDuration])
}

func TestHTTPLogger_CompletedLevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{200, "info"},
		{404, "warning"},
		{503, "error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			base, buf := newBufferLogger(t, LevelInfo)
			NewHTTPLogger(base).Completed(context.Background(), "GET", "/api/v1/rates", tt.status, 2*time.Millisecond)

			lines := decodeLines(t, buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.level, lines[0]["level"])
			assert.Equal(t, float64(tt.status), lines[0][FieldHTTPStatus])
		})
	}
}

func TestGlobal_DefaultsWhenUninitialized(t *testing.T) {
	require.NotNil(t, Global())
	assert.NotNil(t, Store())
	assert.Equal(t, LevelInfo, Global().Base.GetLevel())
}

func TestLoggerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LoggerConfig)
		wantErr bool
	}{
		{name: "default is valid", mutate: func(*LoggerConfig) {}},
		{name: "bad level", mutate: func(c *LoggerConfig) { c.Level = "TRACE" }, wantErr: true},
		{name: "bad format", mutate: func(c *LoggerConfig) { c.Format = "xml" }, wantErr: true},
		{name: "nil output", mutate: func(c *LoggerConfig) { c.Output = nil }, wantErr: true},
		{name: "no service", mutate: func(c *LoggerConfig) { c.Service = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				var cfgErr *ConfigError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigFromValues(t *testing.T) {
	cfg := ConfigFromValues("fx", "2.0.0", "production", "debug", "text")
	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "production", cfg.Environment)
	assert.NoError(t, cfg.Validate())
}

func TestLevelAndFormatFromString(t *testing.T) {
	assert.Equal(t, LevelDebug, LogLevelFromString("DEBUG"))
	assert.Equal(t, LevelWarn, LogLevelFromString("warning"))
	assert.Equal(t, LevelError, LogLevelFromString(" error "))
	assert.Equal(t, LevelInfo, LogLevelFromString("nonsense"))
	assert.Equal(t, FormatText, LogFormatFromString("TEXT"))
	assert.Equal(t, FormatJSON, LogFormatFromString(""))
}

func TestRequestID(t *testing.T) {
	id := NewRequestID()
	assert.True(t, strings.HasPrefix(id, "req_"))
	assert.Len(t, id, 4+32)
	assert.NotEqual(t, id, NewRequestID())

	ctx := EnsureRequestID(context.Background())
	assert.NotEmpty(t, GetRequestID(ctx))
	assert.Equal(t, ctx, EnsureRequestID(ctx))
}
