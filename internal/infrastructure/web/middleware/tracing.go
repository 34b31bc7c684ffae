package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"fx-rates-service/internal/infrastructure/logging"
)

// RequestIDHeader se acepta del cliente y siempre se devuelve en la respuesta
const RequestIDHeader = "X-Request-ID"

// statusRecorder guarda el status y los bytes escritos por el handler
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += int64(n)
	return n, err
}

// Hijack hace falta para el upgrade de /ws/rates
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	sr.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// RequestTracingMiddleware puts the request ID and start time in the context
// and logs completion with the HTTP domain logger. Must run first.
func RequestTracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = logging.NewRequestID()
		}
		w.Header().Set(RequestIDHeader, requestID)

		started := time.Now()
		ctx := logging.WithStartTime(logging.WithRequestID(r.Context(), requestID), started)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		logging.HTTP().Completed(ctx, r.Method, r.URL.Path, rec.status, time.Since(started))
		logging.Debug(ctx, "HTTP response details", logging.Fields{
			"response_size": rec.bytes,
			"request_size":  r.ContentLength,
		})
	})
}

// clientIP: primer hop de X-Forwarded-For, luego X-Real-IP, luego RemoteAddr
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
