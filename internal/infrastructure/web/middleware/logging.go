package middleware

import (
	"net/http"
	"strings"

	"fx-rates-service/internal/infrastructure/logging"
)

// headers que se loguean en DEBUG; nunca la API key
var loggedHeaders = []string{"Accept", "Cache-Control", "Origin", "X-Forwarded-For", "X-Real-IP"}

var suspiciousPatterns = []string{"../", "<script", "union select", "exec(", "eval("}

// maxBodyBytes: ningún endpoint lee body, más de esto es sospechoso
const maxBodyBytes = 1 << 20

// LoggingMiddleware logs request arrival. Runs after RequestTracingMiddleware
// so every line carries the request ID.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientIP(r)

		logging.HTTP().Received(ctx, r.Method, r.URL.Path, r.UserAgent(), ip)

		headers := make(map[string]string, len(loggedHeaders))
		for _, name := range loggedHeaders {
			if v := r.Header.Get(name); v != "" {
				headers[name] = v
			}
		}
		logging.Debug(ctx, "Processing HTTP request", logging.Fields{
			"headers": headers,
			"query":   r.URL.RawQuery,
		})

		if isSuspiciousRequest(r) {
			logging.Warn(ctx, "Suspicious request pattern", logging.Fields{
				logging.FieldHTTPRemoteIP: ip,
				logging.FieldHTTPPath:     r.URL.Path,
			})
		}

		next.ServeHTTP(w, r)
	})
}

func isSuspiciousRequest(r *http.Request) bool {
	target := strings.ToLower(r.URL.Path + "?" + r.URL.RawQuery)
	for _, p := range suspiciousPatterns {
		if strings.Contains(target, p) {
			return true
		}
	}
	return r.ContentLength > maxBodyBytes
}
