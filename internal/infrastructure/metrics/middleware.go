package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// HTTPMetricsMiddleware registra conteo, latencia y tamaño de respuesta por ruta.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &sizeRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		RecordHTTPRequest(r.Method, routeLabel(r), rec.status, time.Since(started).Seconds(), rec.size)
	})
}

type sizeRecorder struct {
	http.ResponseWriter
	status int
	size   int64
}

func (sr *sizeRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *sizeRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.size += int64(n)
	return n, err
}

func (sr *sizeRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	sr.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// routeLabel prefiere el template de mux; sin ruta (404, CORS preflight)
// cae en normalizePath para acotar la cardinalidad.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return normalizePath(r.URL.Path)
}

var knownPaths = map[string]bool{
	"/health":               true,
	"/ready":                true,
	"/metrics":              true,
	"/docs":                 true,
	"/ws/rates":             true,
	"/api/v1/rates":         true,
	"/api/v1/rates/refresh": true,
	"/api/v1/convert":       true,
	"/api/v1/display":       true,
	"/api/v1/crypto":        true,
}

func normalizePath(path string) string {
	if path == "/" {
		return path
	}
	path = strings.TrimSuffix(path, "/")

	switch {
	case knownPaths[path]:
		return path
	case strings.HasPrefix(path, "/swagger"):
		return "/swagger/*"
	case strings.HasPrefix(path, "/api/"):
		return "/api/*"
	}
	return "/unknown"
}
