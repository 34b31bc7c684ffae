package dto

import (
	"testing"
	"time"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/domain/freshness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConvertRequest(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		to        string
		wantTo    string
		wantError string
	}{
		{name: "válido", amount: "100", to: "eur", wantTo: "EUR"},
		{name: "decimales", amount: "12.5", to: "TRY", wantTo: "TRY"},
		{name: "moneda por defecto", amount: "1", to: "", wantTo: "EUR"},
		{name: "sin monto", amount: "", to: "EUR", wantError: "amount is required"},
		{name: "monto inválido", amount: "abc", to: "EUR", wantError: "invalid amount"},
		{name: "monto negativo", amount: "-5", to: "EUR", wantError: "cannot be negative"},
		{name: "NaN", amount: "NaN", to: "EUR", wantError: "finite"},
		{name: "código inválido", amount: "1", to: "EURO", wantError: "invalid currency code"},
		{name: "código con dígitos", amount: "1", to: "E1R", wantError: "invalid currency code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewConvertRequest(tt.amount, tt.to, "eur")
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTo, req.To)
		})
	}
}

func TestRateMapper_ToRatesResponse(t *testing.T) {
	mapper := NewRateMapper(freshness.NewPolicy(10 * time.Minute))
	table := entities.NewRateTable("USD", map[string]float64{"EUR": 0.92, "TRY": 34.1, "JPY": 149.5}, 1_700_000_000, 0)
	entry := entities.NewCacheEntry(table, 1_000)

	full := mapper.ToRatesResponse(entry, 61_000, nil)
	assert.Len(t, full.Rates, 3)
	assert.Equal(t, int64(60_000), full.AgeMs)
	assert.Equal(t, "fresh", full.Verdict)
	assert.Equal(t, int64(1_700_000_000), full.FetchedAt)

	full.Rates["EUR"] = 1
	assert.Equal(t, 0.92, entry.Table.Rates["EUR"], "la respuesta no comparte el mapa")

	subset := mapper.ToRatesResponse(entry, 1_000+10*60*1000, []string{"eur", "GBP"})
	assert.Equal(t, map[string]float64{"EUR": 0.92}, subset.Rates)
	assert.Equal(t, "stale", subset.Verdict)
}

func TestNewCryptoResponse(t *testing.T) {
	prices := &entities.CryptoPrices{Bitcoin: 65000.5, Ethereum: 3200, RetrievedAtLocal: 7}
	resp := NewCryptoResponse(prices, func(amount float64, currency string) string {
		return currency
	})

	assert.Equal(t, 65000.5, resp.Bitcoin)
	assert.Equal(t, "USD", resp.Formatted.Bitcoin)
	assert.Equal(t, int64(7), resp.RetrievedAt)
}
