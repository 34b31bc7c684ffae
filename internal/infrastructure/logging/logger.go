package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// StructuredLogger implementa la interfaz Logger sobre logrus
type StructuredLogger struct {
	config *LoggerConfig
	logger *logrus.Logger
}

// NewStructuredLogger crea un nuevo logger estructurado
func NewStructuredLogger(config *LoggerConfig) (*StructuredLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	return &StructuredLogger{
		config: config,
		logger: newLogrus(config),
	}, nil
}

func newLogrus(config *LoggerConfig) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(config.Output)
	l.SetLevel(toLogrusLevel(config.Level))

	switch config.Format {
	case FormatText:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	default:
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
	return l
}

func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelWarn:
		return logrus.WarnLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// entry arma el logrus.Entry con los campos de servicio y del contexto
func (sl *StructuredLogger) entry(ctx context.Context, fields Fields) *logrus.Entry {
	lf := logrus.Fields{
		FieldService: sl.config.Service,
	}
	if sl.config.Version != "" {
		lf[FieldVersion] = sl.config.Version
	}
	if sl.config.Environment != "" {
		lf["environment"] = sl.config.Environment
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		lf[FieldRequestID] = requestID
	}
	if startTime, ok := startTimeFrom(ctx); ok {
		lf[FieldDuration] = millis(time.Since(startTime))
	}
	for k, v := range fields {
		lf[k] = v
	}
	return sl.logger.WithFields(lf)
}

// Debug logs a debug message
func (sl *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Debug(message)
}

// Info logs an info message
func (sl *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Info(message)
}

// Warn logs a warning message
func (sl *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Warn(message)
}

// Error logs an error message
func (sl *StructuredLogger) Error(ctx context.Context, message string, fields Fields) {
	sl.entry(ctx, fields).Error(message)
}

// WarnWithError agrega error y error_type a fields
func (sl *StructuredLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.Warn(ctx, message, withError(fields, err))
}

func (sl *StructuredLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	sl.Error(ctx, message, withError(fields, err))
}

func withError(fields Fields, err error) Fields {
	if err == nil {
		return fields
	}
	return merge(fields, errorFields(err))
}

// SetLevel establece el nivel de logging
func (sl *StructuredLogger) SetLevel(level LogLevel) {
	sl.config.Level = level
	sl.logger.SetLevel(toLogrusLevel(level))
}

// GetLevel retorna el nivel actual de logging
func (sl *StructuredLogger) GetLevel() LogLevel {
	return sl.config.Level
}
