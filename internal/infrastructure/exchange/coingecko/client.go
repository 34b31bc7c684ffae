package coingecko

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
	DefaultURL     = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin,ethereum&vs_currencies=usd"
	DefaultTimeout = 10 * time.Second

	serviceName = "coingecko"
	endpoint    = "/api/v3/simple/price"
)

// simplePriceResponse: {"bitcoin":{"usd":65000},"ethereum":{"usd":3200}}
type simplePriceResponse map[string]map[string]float64

// Client consulta precios spot de BTC y ETH. No se cachea: cada llamada es un request.
type Client struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient crea el cliente a partir de la configuración
func NewClient(cfg config.CryptoConfig) *Client {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Prices returns the current prices or a *entities.FetchError.
func (c *Client) Prices(ctx context.Context) (*entities.CryptoPrices, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, entities.NewFetchError(entities.NetworkError, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		return nil, c.fail(ctx, entities.NewFetchError(entities.NetworkError, 0, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.RecordProviderCall(serviceName, endpoint, resp.StatusCode, duration.Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.fail(ctx, entities.NewFetchError(entities.BadStatus, resp.StatusCode, nil))
	}

	var body simplePriceResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return nil, c.fail(ctx, entities.NewFetchError(entities.MalformedBody, resp.StatusCode, err))
	}

	btc, okBTC := body["bitcoin"]["usd"]
	eth, okETH := body["ethereum"]["usd"]
	if !okBTC || !okETH {
		return nil, c.fail(ctx, entities.NewFetchError(entities.EmptyRates, resp.StatusCode, fmt.Errorf("missing bitcoin or ethereum usd price")))
	}

	logging.Provider().CallSucceeded(ctx, serviceName, endpoint, resp.StatusCode, duration)
	return &entities.CryptoPrices{
		Bitcoin:          btc,
		Ethereum:         eth,
		RetrievedAtLocal: c.now().UnixMilli(),
	}, nil
}

func (c *Client) fail(ctx context.Context, err *entities.FetchError) error {
	metrics.RecordFetchFailure(serviceName, err.Kind.String())
	logging.Provider().CallFailed(ctx, serviceName, endpoint, err.StatusCode, err, 0)
	return err
}
