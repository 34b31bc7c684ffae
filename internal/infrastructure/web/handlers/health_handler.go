package handlers

import (
	"net/http"

	"fx-rates-service/internal/application/dto"
	"fx-rates-service/internal/domain/freshness"
	"fx-rates-service/internal/domain/interfaces"
)

// HealthHandler maneja los endpoints de health check
type HealthHandler struct {
	store  interfaces.Pinger
	rates  interfaces.RateReader
	policy freshness.Policy
	clock  interfaces.Clock
}

// NewHealthHandler crea una nueva instancia del health handler
func NewHealthHandler(store interfaces.Pinger, rates interfaces.RateReader, policy freshness.Policy, clock interfaces.Clock) *HealthHandler {
	return &HealthHandler{
		store:  store,
		rates:  rates,
		policy: policy,
		clock:  clock,
	}
}

// Health godoc
// @Summary Basic health check
// @Description Verifies that the service is running. Does not check dependencies.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is running correctly"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"service": "running",
	}

	response := dto.NewHealthResponse("healthy", services)
	writeJSON(w, r.Context(), http.StatusOK, response)
}

// Ready godoc
// @Summary Readiness check
// @Description Verifies the rate store backend is reachable and reports the freshness of the stored rates.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is ready to receive traffic"
// @Failure 503 {object} dto.HealthResponse "Rate store backend is unreachable"
// @Router /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	services := make(map[string]string)

	if err := h.store.Ping(ctx); err != nil {
		services["cache"] = "error: " + err.Error()
		response := dto.NewHealthResponse("unhealthy", services)
		writeJSON(w, ctx, http.StatusServiceUnavailable, response)
		return
	}
	services["cache"] = "ready"

	// sin tasas el servicio sigue listo: el próximo refresh las trae
	entry, _ := h.rates.Current(ctx)
	verdict := h.policy.Classify(entry, h.clock.NowMillis())
	services["rates"] = verdict.String()

	status := "ready"
	if verdict != freshness.Fresh {
		status = "degraded"
	}

	response := dto.NewHealthResponse(status, services)
	writeJSON(w, ctx, http.StatusOK, response)
}
