package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"fx-rates-service/internal/application/dto"
	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/logging"
)

// Códigos de rechazo en el campo code de la respuesta 401.
const (
	CodeAPIKeyMissing = "API_KEY_MISSING"
	CodeAPIKeyInvalid = "API_KEY_INVALID"
)

// AuthMiddleware exige una API key en las rutas de administración
// (refresh manual y limpieza del slot). Deshabilitado deja pasar todo.
type AuthMiddleware struct {
	enabled bool
	header  string
	key     []byte
}

func NewAuthMiddleware(cfg config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{
		enabled: cfg.Enabled,
		header:  cfg.HeaderName,
		key:     []byte(cfg.APIKey),
	}
}

func (am *AuthMiddleware) Handler(next http.Handler) http.Handler {
	if !am.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(am.header)
		switch {
		case provided == "":
			am.reject(w, r, CodeAPIKeyMissing, "API key missing")
		case subtle.ConstantTimeCompare([]byte(provided), am.key) != 1:
			am.reject(w, r, CodeAPIKeyInvalid, "Invalid API key")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (am *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, code, reason string) {
	logging.Warn(r.Context(), "Admin request rejected", logging.Fields{
		logging.FieldHTTPMethod:   r.Method,
		logging.FieldHTTPPath:     r.URL.Path,
		logging.FieldHTTPRemoteIP: clientIP(r),
		"error_code":              code,
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="fx-rates-admin"`)
	w.WriteHeader(http.StatusUnauthorized)

	body := dto.NewErrorResponseWithCode("UNAUTHORIZED", reason, code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.ErrorWithError(r.Context(), "Failed to encode auth error", err, nil)
	}
}
