package dto

import (
	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/domain/freshness"
)

// RateMapper maneja la conversión entre entidades del dominio y DTOs
type RateMapper struct {
	policy freshness.Policy
}

// NewRateMapper crea una nueva instancia del mapper con el TTL usado para el veredicto
func NewRateMapper(policy freshness.Policy) *RateMapper {
	return &RateMapper{policy: policy}
}

// ToRatesResponse convierte la entrada almacenada a DTO. currencies filtra las
// tasas; vacío devuelve la tabla completa.
func (m *RateMapper) ToRatesResponse(entry *entities.CacheEntry, nowMs int64, currencies []string) *RatesResponse {
	rates := entry.Table.Clone().Rates
	if len(currencies) > 0 {
		rates = entry.Table.Subset(currencies)
	}

	return &RatesResponse{
		Base:      entry.Table.Base,
		Rates:     rates,
		FetchedAt: entry.Table.FetchedAtServer,
		StoredAt:  entry.StoredAtLocal,
		AgeMs:     entry.AgeMillis(nowMs),
		Verdict:   m.policy.Classify(entry, nowMs).String(),
	}
}

// ToConvertResponse arma la respuesta de conversión
func (m *RateMapper) ToConvertResponse(req *ConvertRequest, base string, rate, result float64, formatted string) *ConvertResponse {
	return &ConvertResponse{
		From:      base,
		To:        req.To,
		Amount:    req.Amount,
		Result:    result,
		Formatted: formatted,
		Rate:      rate,
	}
}
