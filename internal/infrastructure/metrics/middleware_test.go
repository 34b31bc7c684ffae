package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/health", "/health"},
		{"/ready/", "/ready"},
		{"/api/v1/rates", "/api/v1/rates"},
		{"/api/v1/rates/refresh", "/api/v1/rates/refresh"},
		{"/api/v1/convert", "/api/v1/convert"},
		{"/api/v1/rates/EUR", "/api/*"},
		{"/api/v2/x", "/api/*"},
		{"/swagger/index.html", "/swagger/*"},
		{"/ws/rates", "/ws/rates"},
		{"/wp-admin", "/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}

func TestHTTPMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(HTTPMetricsMiddleware)
	router.HandleFunc("/api/v1/test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}).Methods(http.MethodGet)

	counter := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/test/{id}", "418")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/test/42", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(RefreshesTotal.WithLabelValues("stale"))
	RecordRefresh("stale")
	assert.Equal(t, before+1, testutil.ToFloat64(RefreshesTotal.WithLabelValues("stale")))

	UpdateCurrentRates("USD", map[string]float64{"EUR": 0.92})
	assert.Equal(t, 0.92, testutil.ToFloat64(CurrentRates.WithLabelValues("USD", "EUR")))
}
