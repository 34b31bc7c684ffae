// Package display turns rate snapshots into what a user sees: a short
// rendered line, a "last updated" title, and pushes to connected sinks.
package display

import (
	"math"
	"strconv"
	"strings"
	"time"

	"fx-rates-service/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// Unavailable es lo que se muestra cuando el refresh falló
const Unavailable = "Unavailable"

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"TRY": "₺",
	"GBP": "£",
}

// FormatCurrency renders amount with the currency symbol and two decimals.
// Unknown currencies are prefixed with "<CODE> ". NaN and ±Inf render as-is.
func FormatCurrency(amount float64, currency string) string {
	code := entities.NormalizeCode(currency)
	symbol, ok := symbols[code]
	if !ok {
		symbol = code + " "
	}
	// decimal.NewFromFloat no acepta valores no finitos
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return symbol + strconv.FormatFloat(amount, 'f', -1, 64)
	}
	return symbol + decimal.NewFromFloat(amount).StringFixed(2)
}

// Formatter fills Rendered and Title on snapshots for a fixed currency list.
type Formatter struct {
	currencies []string
	loc        *time.Location
}

// NewFormatter creates a formatter; a nil loc means UTC.
func NewFormatter(currencies []string, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.UTC
	}
	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, entities.NormalizeCode(c))
	}
	return &Formatter{currencies: codes, loc: loc}
}

// Currencies returns the configured display codes
func (f *Formatter) Currencies() []string {
	out := make([]string, len(f.currencies))
	copy(out, f.currencies)
	return out
}

// Render returns a copy of s with Rates trimmed to the display currencies,
// Rendered like "€0.92 | ₺34.10" and Title like "Last updated: 15:04:05".
// Unavailable snapshots, or ones missing every display currency, render as
// Unavailable with no title.
func (f *Formatter) Render(s entities.Snapshot) entities.Snapshot {
	out := s
	out.Rates = nil
	out.Title = ""

	if !s.Available() {
		out.Rendered = Unavailable
		return out
	}

	subset := make(map[string]float64, len(f.currencies))
	parts := make([]string, 0, len(f.currencies))
	for _, code := range f.currencies {
		rate, ok := s.Rates[code]
		if !ok {
			continue
		}
		subset[code] = rate
		parts = append(parts, FormatCurrency(rate, code))
	}

	if len(parts) == 0 {
		out.Rendered = Unavailable
		return out
	}

	out.Rates = subset
	out.Rendered = strings.Join(parts, " | ")
	if s.FetchedAt > 0 {
		out.Title = "Last updated: " + time.Unix(s.FetchedAt, 0).In(f.loc).Format("15:04:05")
	}
	return out
}
