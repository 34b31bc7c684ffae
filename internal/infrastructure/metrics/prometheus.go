package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the FX rates service
var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fx_rates_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPResponseSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fx_rates_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)

	// Store
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_store_operations_total",
			Help: "Total number of rate store operations",
		},
		[]string{"operation", "result"}, // operation: read/write/clear, result: hit/miss/success/error/corrupt
	)

	CacheVerdictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_cache_verdicts_total",
			Help: "Freshness verdicts issued for the stored rate table",
		},
		[]string{"verdict"}, // absent/fresh/stale
	)

	// Providers
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_provider_requests_total",
			Help: "Outbound requests to rate and price providers",
		},
		[]string{"provider", "endpoint", "status_code"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fx_rates_provider_request_duration_seconds",
			Help:    "Provider request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"provider", "endpoint"},
	)

	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_fetch_failures_total",
			Help: "Rate fetch failures by kind",
		},
		[]string{"service", "kind"}, // kind: network_error/bad_status/malformed_body/empty_rates
	)

	RedisConnectRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fx_rates_redis_connect_retries_total",
			Help: "Redis connection attempts retried at startup",
		},
	)

	RateLimitRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_rate_limit_requests_total",
			Help: "API requests checked by the per-client rate limiter",
		},
		[]string{"result"}, // allowed/limited
	)

	// Business Metrics
	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_refreshes_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"result"}, // result: cached/fetched/stale/unavailable
	)

	CurrentRates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fx_rates_current_rate",
			Help: "Current exchange rate against the base currency",
		},
		[]string{"base", "currency"},
	)

	RateAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fx_rates_rate_age_seconds",
			Help: "Age of the stored rate table in seconds",
		},
	)

	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fx_rates_conversions_total",
			Help: "Currency conversions by target and result",
		},
		[]string{"currency", "result"}, // result: ok/no_data/unknown_currency
	)

	// Application Metrics
	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fx_rates_application_info",
			Help: "Application information",
		},
		[]string{"version", "build_time", "go_version"},
	)

	UptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fx_rates_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	// WebSocket Metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fx_rates_ws_clients",
			Help: "Connected display websocket clients",
		},
	)

	WebSocketDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fx_rates_ws_drops_total",
			Help: "Snapshots descartados por cliente lento",
		},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)

	if responseSize > 0 {
		HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordStoreOperation records cache operation metrics
func RecordStoreOperation(operation, result string) {
	StoreOperationsTotal.WithLabelValues(operation, result).Inc()
}

// RecordVerdict records a freshness verdict
func RecordVerdict(verdict string) {
	CacheVerdictsTotal.WithLabelValues(verdict).Inc()
}

// RecordProviderCall records external API call metrics
func RecordProviderCall(provider, endpoint string, statusCode int, duration float64) {
	ProviderRequestsTotal.WithLabelValues(provider, endpoint, strconv.Itoa(statusCode)).Inc()
	ProviderRequestDuration.WithLabelValues(provider, endpoint).Observe(duration)
}

// RecordFetchFailure records a typed fetch failure
func RecordFetchFailure(service, kind string) {
	FetchFailuresTotal.WithLabelValues(service, kind).Inc()
}

// RecordRedisConnectRetry records a retried redis bootstrap attempt
func RecordRedisConnectRetry() {
	RedisConnectRetries.Inc()
}

// RecordRateLimitResult records whether a request passed the rate limiter
func RecordRateLimitResult(allowed bool) {
	result := "allowed"
	if !allowed {
		result = "limited"
	}
	RateLimitRequestsTotal.WithLabelValues(result).Inc()
}

// RecordRefresh records the outcome of a refresh cycle
func RecordRefresh(result string) {
	RefreshesTotal.WithLabelValues(result).Inc()
}

// UpdateCurrentRates updates the rate gauges for a table
func UpdateCurrentRates(base string, rates map[string]float64) {
	for code, rate := range rates {
		CurrentRates.WithLabelValues(base, code).Set(rate)
	}
}

// UpdateRateAge updates the stored table age gauge
func UpdateRateAge(ageSeconds float64) {
	RateAge.Set(ageSeconds)
}

// RecordConversion records a conversion result
func RecordConversion(currency, result string) {
	ConversionsTotal.WithLabelValues(currency, result).Inc()
}

// SetApplicationInfo sets application information
func SetApplicationInfo(version, buildTime, goVersion string) {
	ApplicationInfo.WithLabelValues(version, buildTime, goVersion).Set(1)
}

// UpdateUptime updates application uptime
func UpdateUptime(seconds float64) {
	UptimeSeconds.Set(seconds)
}

// UpdateWebSocketClients sets the connected websocket client count
func UpdateWebSocketClients(n int) {
	WebSocketClients.Set(float64(n))
}

// RecordWebSocketDrop incrementa contador de descartes por cliente lento
func RecordWebSocketDrop() {
	WebSocketDrops.Inc()
}
