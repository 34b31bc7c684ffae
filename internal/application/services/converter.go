package services

import (
	"context"
	"math"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/domain/interfaces"
	"fx-rates-service/internal/infrastructure/display"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"

	"github.com/shopspring/decimal"
)

// Converter convierte montos en la moneda base usando la tabla almacenada.
// Nunca dispara un fetch.
type Converter struct {
	reader interfaces.RateReader
	logger logging.RatesLogger
}

// NewConverter creates a converter over reader
func NewConverter(reader interfaces.RateReader) *Converter {
	return &Converter{
		reader: reader,
		logger: logging.Rates(),
	}
}

// Convert returns amount * rate[target]. ok is false when there is no stored
// table or target is not in it. Stale tables still convert.
func (c *Converter) Convert(ctx context.Context, amount float64, target string) (float64, bool) {
	result, err := c.ConvertE(ctx, amount, target)
	if err != nil {
		return 0, false
	}
	return result, true
}

// ConvertE es Convert con el motivo: entities.ErrInvalidAmount,
// entities.ErrNoDataAvailable o entities.ErrUnknownRate
func (c *Converter) ConvertE(ctx context.Context, amount float64, target string) (float64, error) {
	code := entities.NormalizeCode(target)

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		metrics.RecordConversion(code, "invalid_amount")
		c.logger.ConversionUnavailable(ctx, code, "invalid_amount")
		return 0, entities.ErrInvalidAmount
	}

	entry, ok := c.reader.Current(ctx)
	if !ok {
		metrics.RecordConversion(code, "no_data")
		c.logger.ConversionUnavailable(ctx, code, "no_data")
		return 0, entities.ErrNoDataAvailable
	}

	rate, ok := entry.Table.Rate(code)
	if !ok {
		metrics.RecordConversion(code, "unknown_currency")
		c.logger.ConversionUnavailable(ctx, code, "unknown_currency")
		return 0, entities.ErrUnknownRate
	}

	result, _ := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).Float64()
	metrics.RecordConversion(code, "ok")
	return result, nil
}

// Format renders amount in currency for display (symbol and two decimals).
func (c *Converter) Format(amount float64, currency string) string {
	return display.FormatCurrency(amount, currency)
}
