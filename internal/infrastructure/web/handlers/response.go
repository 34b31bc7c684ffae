package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"fx-rates-service/internal/application/dto"
	"fx-rates-service/internal/infrastructure/logging"
)

// writeJSON writes a JSON response preserving the request context for logs
func writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.ErrorWithError(ctx, "Failed to encode JSON response", err, logging.Fields{
			"status_code": statusCode,
		})
	}
}

// writeError writes an ErrorResponse with the given code
func writeError(w http.ResponseWriter, ctx context.Context, statusCode int, errorCode, message string) {
	writeJSON(w, ctx, statusCode, dto.NewErrorResponse(errorCode, message))
}
