package dto

import (
	"time"

	"fx-rates-service/internal/domain/entities"
)

// RatesResponse represents the response from /api/v1/rates
// @Description Cached exchange rates relative to the base currency
type RatesResponse struct {
	Base      string             `json:"base" example:"USD"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt int64              `json:"fetched_at" example:"1714571130"`   // epoch seconds, provider
	StoredAt  int64              `json:"stored_at" example:"1714571131234"` // epoch milliseconds, local
	AgeMs     int64              `json:"age_ms" example:"42000"`
	Verdict   string             `json:"verdict" example:"fresh" enums:"fresh,stale"`
}

// RefreshResponse represents the response from POST /api/v1/rates/refresh
type RefreshResponse struct {
	Message string         `json:"message" example:"Rates refreshed successfully"`
	Rates   *RatesResponse `json:"rates,omitempty"`
}

// ConvertResponse represents the response from /api/v1/convert
// @Description Conversion of an amount in the base currency
type ConvertResponse struct {
	From      string  `json:"from" example:"USD"`
	To        string  `json:"to" example:"EUR"`
	Amount    float64 `json:"amount" example:"100"`
	Result    float64 `json:"result" example:"92"`
	Formatted string  `json:"formatted" example:"€92.00"`
	Rate      float64 `json:"rate" example:"0.92"`
}

// CryptoResponse represents the response from /api/v1/crypto
type CryptoResponse struct {
	Bitcoin     float64         `json:"bitcoin" example:"65000.5"`
	Ethereum    float64         `json:"ethereum" example:"3200"`
	Formatted   CryptoFormatted `json:"formatted"`
	RetrievedAt int64           `json:"retrieved_at" example:"1714571131234"`
}

// CryptoFormatted son los precios listos para mostrar
type CryptoFormatted struct {
	Bitcoin  string `json:"bitcoin" example:"$65000.50"`
	Ethereum string `json:"ethereum" example:"$3200.00"`
}

// ErrorResponse represents a standard error response for endpoints
// @Description Standard error response for endpoints
type ErrorResponse struct {
	Error   string `json:"error" example:"INVALID_PARAMETER" validate:"required"` // Main error message
	Message string `json:"message,omitempty" example:"amount must be a number"`   // Detailed error description
	Code    string `json:"code,omitempty" example:"400"`                          // HTTP error code or internal code
}

// HealthResponse represents the health check response with service status
// @Description Health check response with service status
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy" validate:"required" enums:"healthy,ready,degraded,unhealthy"` // Overall service status
	Timestamp time.Time         `json:"timestamp" example:"2023-12-01T10:30:00Z" validate:"required"`                          // When the health check was performed
	Services  map[string]string `json:"services,omitempty" example:"cache:ready,rates:fresh"`                                  // Individual service statuses
}

// NewErrorResponse creates a new error response
func NewErrorResponse(error string, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   error,
		Message: message,
	}
}

// NewErrorResponseWithCode creates an error response with code
func NewErrorResponseWithCode(error string, message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	}
}

// NewHealthResponse creates a health check response
func NewHealthResponse(status string, services map[string]string) *HealthResponse {
	return &HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	}
}

// NewCryptoResponse mapea precios de crypto con su versión formateada
func NewCryptoResponse(prices *entities.CryptoPrices, format func(float64, string) string) *CryptoResponse {
	resp := &CryptoResponse{
		Bitcoin:     prices.Bitcoin,
		Ethereum:    prices.Ethereum,
		RetrievedAt: prices.RetrievedAtLocal,
	}
	resp.Formatted.Bitcoin = format(prices.Bitcoin, entities.DefaultBaseCurrency)
	resp.Formatted.Ethereum = format(prices.Ethereum, entities.DefaultBaseCurrency)
	return resp
}
