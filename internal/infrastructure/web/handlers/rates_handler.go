package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fx-rates-service/internal/application/dto"
	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/domain/freshness"
	"fx-rates-service/internal/domain/interfaces"
	"fx-rates-service/internal/infrastructure/logging"
)

// SnapshotBoard exposes the latest display snapshot
type SnapshotBoard interface {
	Latest() (entities.Snapshot, bool)
}

// RatesHandler handles the exchange rate endpoints
type RatesHandler struct {
	service    interfaces.RateService
	converter  interfaces.ConversionService
	board      SnapshotBoard
	crypto     interfaces.CryptoSource
	mapper     *dto.RateMapper
	clock      interfaces.Clock
	currencies []string
}

// RatesHandlerConfig agrupa las dependencias del handler; Crypto puede ser nil
type RatesHandlerConfig struct {
	Service    interfaces.RateService
	Converter  interfaces.ConversionService
	Board      SnapshotBoard
	Crypto     interfaces.CryptoSource
	Policy     freshness.Policy
	Clock      interfaces.Clock
	Currencies []string
}

// NewRatesHandler creates a new instance of the rates handler
func NewRatesHandler(cfg RatesHandlerConfig) *RatesHandler {
	return &RatesHandler{
		service:    cfg.Service,
		converter:  cfg.Converter,
		board:      cfg.Board,
		crypto:     cfg.Crypto,
		mapper:     dto.NewRateMapper(cfg.Policy),
		clock:      cfg.Clock,
		currencies: cfg.Currencies,
	}
}

// GetRates godoc
// @Summary Current exchange rates
// @Description Serves the stored table while fresh, otherwise fetches once. Falls back to stale data when the provider fails.
// @Tags rates
// @Produce json
// @Param currencies query string false "Comma separated currency codes (e.g. EUR,TRY)"
// @Success 200 {object} dto.RatesResponse
// @Failure 503 {object} dto.ErrorResponse "No rate data available"
// @Router /api/v1/rates [get]
func (h *RatesHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	table := h.service.Refresh(ctx)
	if table == nil {
		h.writeNoData(w, r)
		return
	}

	entry := h.currentOr(r, table)
	writeJSON(w, ctx, http.StatusOK, h.mapper.ToRatesResponse(entry, h.clock.NowMillis(), parseCodes(r.URL.Query().Get("currencies"))))
}

// RefreshRates godoc
// @Summary Force a refresh
// @Description Fetches from the provider regardless of freshness. On failure the previous rates stay in place.
// @Tags rates
// @Produce json
// @Success 200 {object} dto.RefreshResponse
// @Failure 503 {object} dto.ErrorResponse "Provider failed and no previous data exists"
// @Router /api/v1/rates/refresh [post]
func (h *RatesHandler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logging.Info(ctx, "Manual rate refresh requested", nil)

	before, hadPrior := h.service.Current(ctx)
	table := h.service.ForceRefresh(ctx)
	if table == nil {
		h.writeNoData(w, r)
		return
	}

	entry := h.currentOr(r, table)
	message := "Rates refreshed successfully"
	if hadPrior && entry.StoredAtLocal == before.StoredAtLocal {
		// el store no cambió: el fetch falló y se sirve lo anterior
		message = "Refresh failed, serving previous rates"
	}

	rates := h.mapper.ToRatesResponse(entry, h.clock.NowMillis(), nil)
	writeJSON(w, ctx, http.StatusOK, &dto.RefreshResponse{Message: message, Rates: rates})
}

// ClearRates godoc
// @Summary Clear the rate cache
// @Tags rates
// @Success 204
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/rates [delete]
func (h *RatesHandler) ClearRates(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		logging.ErrorWithError(r.Context(), "Failed to clear rate cache", err, nil)
		writeError(w, r.Context(), http.StatusInternalServerError, "CACHE_ERROR", "Failed to clear rate cache")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Convert godoc
// @Summary Convert an amount from the base currency
// @Description Pure read of the stored rates (stale data still converts). Never triggers a fetch.
// @Tags rates
// @Produce json
// @Param amount query number true "Amount in the base currency"
// @Param to query string false "Target currency (defaults to the first display currency)"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 404 {object} dto.ErrorResponse "Currency not in the rate table"
// @Failure 503 {object} dto.ErrorResponse "No rate data available"
// @Router /api/v1/convert [get]
func (h *RatesHandler) Convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defaultTo := ""
	if len(h.currencies) > 0 {
		defaultTo = h.currencies[0]
	}
	request, err := dto.NewConvertRequest(r.URL.Query().Get("amount"), r.URL.Query().Get("to"), defaultTo)
	if err != nil {
		writeError(w, ctx, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}

	result, err := h.converter.ConvertE(ctx, request.Amount, request.To)
	switch {
	case errors.Is(err, entities.ErrInvalidAmount):
		writeError(w, ctx, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	case errors.Is(err, entities.ErrNoDataAvailable):
		h.writeNoData(w, r)
		return
	case errors.Is(err, entities.ErrUnknownRate):
		writeError(w, ctx, http.StatusNotFound, "UNKNOWN_CURRENCY", "currency not available: "+request.To)
		return
	case err != nil:
		writeError(w, ctx, http.StatusInternalServerError, "CONVERSION_ERROR", err.Error())
		return
	}

	base, rate := entities.DefaultBaseCurrency, 0.0
	if entry, ok := h.service.Current(ctx); ok {
		base = entry.Table.Base
		rate, _ = entry.Table.Rate(request.To)
	}

	response := h.mapper.ToConvertResponse(request, base, rate, result, h.converter.Format(result, request.To))
	writeJSON(w, ctx, http.StatusOK, response)
}

// GetDisplay godoc
// @Summary Latest display snapshot
// @Description What the rate display shows right now, e.g. "€0.92 | ₺34.10" or "Unavailable".
// @Tags display
// @Produce json
// @Success 200 {object} entities.Snapshot
// @Router /api/v1/display [get]
func (h *RatesHandler) GetDisplay(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.board.Latest()
	if !ok {
		snapshot = entities.Snapshot{
			Status:   entities.SnapshotUnavailable,
			Base:     entities.DefaultBaseCurrency,
			Rendered: "Unavailable",
		}
	}
	writeJSON(w, r.Context(), http.StatusOK, snapshot)
}

// GetCrypto godoc
// @Summary Bitcoin and Ethereum prices in USD
// @Tags crypto
// @Produce json
// @Success 200 {object} dto.CryptoResponse
// @Failure 404 {object} dto.ErrorResponse "Crypto lookup disabled"
// @Failure 502 {object} dto.ErrorResponse "Price provider failed"
// @Router /api/v1/crypto [get]
func (h *RatesHandler) GetCrypto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.crypto == nil {
		writeError(w, ctx, http.StatusNotFound, "FEATURE_DISABLED", "crypto price lookup is disabled")
		return
	}

	prices, err := h.crypto.Prices(ctx)
	if err != nil {
		var fetchErr *entities.FetchError
		code := "PROVIDER_ERROR"
		if errors.As(err, &fetchErr) {
			code = strings.ToUpper(fetchErr.Kind.String())
		}
		writeError(w, ctx, http.StatusBadGateway, code, err.Error())
		return
	}

	writeJSON(w, ctx, http.StatusOK, dto.NewCryptoResponse(prices, h.converter.Format))
}

// currentOr lee la entrada almacenada; si el write falló usa la tabla recién obtenida
func (h *RatesHandler) currentOr(r *http.Request, table *entities.RateTable) *entities.CacheEntry {
	if entry, ok := h.service.Current(r.Context()); ok {
		return entry
	}
	return entities.NewCacheEntry(table, h.clock.NowMillis())
}

func (h *RatesHandler) writeNoData(w http.ResponseWriter, r *http.Request) {
	writeError(w, r.Context(), http.StatusServiceUnavailable, "NO_DATA_AVAILABLE", entities.ErrNoDataAvailable.Error())
}

// parseCodes separa "eur, try" en ["EUR","TRY"]
func parseCodes(raw string) []string {
	var codes []string
	for _, code := range strings.Split(raw, ",") {
		if code = entities.NormalizeCode(code); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
