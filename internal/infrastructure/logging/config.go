package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// LogFormat es el encoder de salida
type LogFormat string

const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

// LoggerConfig describe el logger base. Los campos Service, Version y
// Environment se agregan a cada línea.
type LoggerConfig struct {
	Level       LogLevel
	Format      LogFormat
	Output      io.Writer
	Service     string
	Version     string
	Environment string
}

// Option ajusta un LoggerConfig
type Option func(*LoggerConfig)

func WithLevel(level LogLevel) Option {
	return func(c *LoggerConfig) { c.Level = level }
}

func WithFormat(format LogFormat) Option {
	return func(c *LoggerConfig) { c.Format = format }
}

func WithOutput(w io.Writer) Option {
	return func(c *LoggerConfig) { c.Output = w }
}

// DefaultConfig: JSON a stdout en nivel INFO
func DefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		Level:       LevelInfo,
		Format:      FormatJSON,
		Output:      os.Stdout,
		Service:     "fx-rates-service",
		Environment: "development",
	}
}

// NewConfig parte de DefaultConfig con la identidad del servicio y aplica opts en orden.
func NewConfig(service, version, environment string, opts ...Option) *LoggerConfig {
	cfg := DefaultConfig()
	cfg.Service = service
	cfg.Version = version
	cfg.Environment = environment
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ConfigFromValues arma la configuración con los strings ya cargados por viper.
func ConfigFromValues(service, version, environment, level, format string) *LoggerConfig {
	return NewConfig(service, version, environment,
		WithLevel(LogLevelFromString(level)),
		WithFormat(LogFormatFromString(format)),
	)
}

// ConfigError indica qué campo de LoggerConfig es inválido
type ConfigError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("logger config %s=%q: %s", e.Field, e.Value, e.Reason)
}

func (c *LoggerConfig) Validate() error {
	switch {
	case !validLevel(c.Level):
		return &ConfigError{Field: "level", Value: string(c.Level), Reason: "unknown level"}
	case c.Format != FormatJSON && c.Format != FormatText:
		return &ConfigError{Field: "format", Value: string(c.Format), Reason: "must be json or text"}
	case c.Output == nil:
		return &ConfigError{Field: "output", Value: "<nil>", Reason: "writer is required"}
	case c.Service == "":
		return &ConfigError{Field: "service", Reason: "service name is required"}
	}
	return nil
}

func validLevel(l LogLevel) bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	}
	return false
}

// LogLevelFromString es tolerante: cualquier valor desconocido es INFO
func LogLevelFromString(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

func LogFormatFromString(format string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(format), string(FormatText)) {
		return FormatText
	}
	return FormatJSON
}
