package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/infrastructure/config"
	"fx-rates-service/internal/infrastructure/logging"
	"fx-rates-service/internal/infrastructure/metrics"
)

const (
	DefaultURL     = "https://api.exchangerate-api.com/v4/latest/USD"
	DefaultTimeout = 10 * time.Second

	serviceName  = "exchangerate-api"
	endpoint     = "/v4/latest"
	maxBodyBytes = 1 << 20
)

// Client implementa interfaces.RateSource contra exchangerate-api.com.
// Hace exactamente un intento por llamada: no hay retry.
type Client struct {
	url          string
	expectedBase string
	userAgent    string
	httpClient   *http.Client
	now          func() time.Time
	logger       logging.ProviderLogger
}

// NewClient crea un cliente con la URL y timeout por defecto
func NewClient() *Client {
	return &Client{
		url:          DefaultURL,
		expectedBase: entities.DefaultBaseCurrency,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		now:          time.Now,
		logger:       logging.Provider(),
	}
}

// NewClientWithConfig crea un cliente a partir de la configuración del proveedor
func NewClientWithConfig(cfg config.ProviderConfig, base string) *Client {
	c := NewClient()
	if cfg.URL != "" {
		c.url = cfg.URL
	}
	if cfg.Timeout > 0 {
		c.httpClient.Timeout = cfg.Timeout
	}
	if base != "" {
		c.expectedBase = entities.NormalizeCode(base)
	}
	c.userAgent = cfg.UserAgent
	return c
}

// Fetch performs one request and classifies every failure into a FetchErrorKind.
func (c *Client) Fetch(ctx context.Context) entities.FetchOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return c.fail(ctx, entities.NetworkError, 0, fmt.Errorf("failed to create request: %w", err), 0)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.CallStarted(ctx, serviceName, endpoint)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		return c.fail(ctx, entities.NetworkError, 0, err, requestDuration)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.RecordProviderCall(serviceName, endpoint, resp.StatusCode, requestDuration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drenar para reutilizar la conexión
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return c.fail(ctx, entities.BadStatus, resp.StatusCode, nil, requestDuration)
	}

	var body LatestResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return c.fail(ctx, entities.MalformedBody, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err), requestDuration)
	}

	table, kind, err := c.toTable(body)
	if err != nil {
		return c.fail(ctx, kind, resp.StatusCode, err, requestDuration)
	}

	c.logger.CallSucceeded(ctx, serviceName, endpoint, resp.StatusCode, requestDuration)
	logging.Debug(ctx, "Rate table fetched", logging.Fields{
		logging.FieldBase:       table.Base,
		logging.FieldRatesCount: len(table.Rates),
		"time_last_updated":     table.FetchedAtServer,
	})

	return entities.Success(table)
}

// toTable valida la forma del body y construye la tabla
func (c *Client) toTable(body LatestResponse) (*entities.RateTable, entities.FetchErrorKind, error) {
	if len(body.Rates) == 0 {
		return nil, entities.EmptyRates, nil
	}

	base := entities.NormalizeCode(body.Base)
	if base == "" {
		base = c.expectedBase
	}
	if base != c.expectedBase {
		return nil, entities.MalformedBody, fmt.Errorf("unexpected base %q, want %q", base, c.expectedBase)
	}

	table := entities.NewRateTable(base, body.Rates, body.TimeLastUpdated, c.now().UnixMilli())
	if err := table.Validate(); err != nil {
		return nil, entities.MalformedBody, err
	}
	return table, 0, nil
}

func (c *Client) fail(ctx context.Context, kind entities.FetchErrorKind, statusCode int, cause error, duration time.Duration) entities.FetchOutcome {
	outcome := entities.Failure(kind, statusCode, cause)
	metrics.RecordFetchFailure(serviceName, kind.String())
	c.logger.CallFailed(ctx, serviceName, endpoint, statusCode, outcome.Err, duration)
	return outcome
}
