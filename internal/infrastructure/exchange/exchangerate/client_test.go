package exchangerate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fx-rates-service/internal/domain/entities"
	"fx-rates-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `{"base":"USD","date":"2024-01-01","time_last_updated":1704067201,"rates":{"USD":1,"EUR":0.92,"TRY":34.1}}`

func createMockServer(statusCode int, body string) (*httptest.Server, *int32) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}))
	return server, &calls
}

func newTestClient(url string) *Client {
	c := NewClientWithConfig(config.ProviderConfig{URL: url, Timeout: 2 * time.Second}, "USD")
	c.now = func() time.Time { return time.UnixMilli(1_704_067_300_000) }
	return c
}

func TestNewClient_DefaultConfiguration(t *testing.T) {
	client := NewClient()

	assert.Equal(t, DefaultURL, client.url)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, "USD", client.expectedBase)
}

func TestNewClientWithConfig_CustomConfiguration(t *testing.T) {
	client := NewClientWithConfig(config.ProviderConfig{
		URL:       "https://rates.example.com/latest/EUR",
		Timeout:   3 * time.Second,
		UserAgent: "fx-test",
	}, "eur")

	assert.Equal(t, "https://rates.example.com/latest/EUR", client.url)
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)
	assert.Equal(t, "EUR", client.expectedBase)
	assert.Equal(t, "fx-test", client.userAgent)
}

func TestClient_Fetch_Success(t *testing.T) {
	server, calls := createMockServer(http.StatusOK, sampleBody)
	defer server.Close()

	outcome := newTestClient(server.URL).Fetch(context.Background())

	require.True(t, outcome.OK())
	assert.Nil(t, outcome.Err)
	assert.Equal(t, "USD", outcome.Table.Base)
	assert.Equal(t, 0.92, outcome.Table.Rates["EUR"])
	assert.Equal(t, 34.1, outcome.Table.Rates["TRY"])
	assert.Equal(t, int64(1704067201), outcome.Table.FetchedAtServer)
	assert.Equal(t, int64(1_704_067_300_000), outcome.Table.RetrievedAtLocal)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_Fetch_MissingBaseDefaultsToExpected(t *testing.T) {
	server, _ := createMockServer(http.StatusOK, `{"rates":{"eur":0.9}}`)
	defer server.Close()

	outcome := newTestClient(server.URL).Fetch(context.Background())

	require.True(t, outcome.OK())
	assert.Equal(t, "USD", outcome.Table.Base)
	assert.Equal(t, 0.9, outcome.Table.Rates["EUR"])
}

func TestClient_Fetch_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   entities.FetchErrorKind
		wantStatus int
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: `{}`, wantKind: entities.BadStatus, wantStatus: 503},
		{name: "not found", status: http.StatusNotFound, body: `nope`, wantKind: entities.BadStatus, wantStatus: 404},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, wantKind: entities.BadStatus, wantStatus: 429},
		{name: "invalid json", status: http.StatusOK, body: `{"rates":`, wantKind: entities.MalformedBody, wantStatus: 200},
		{name: "html body", status: http.StatusOK, body: `<html></html>`, wantKind: entities.MalformedBody, wantStatus: 200},
		{name: "rates wrong type", status: http.StatusOK, body: `{"rates":["EUR"]}`, wantKind: entities.MalformedBody, wantStatus: 200},
		{name: "negative rate", status: http.StatusOK, body: `{"base":"USD","rates":{"EUR":-1}}`, wantKind: entities.MalformedBody, wantStatus: 200},
		{name: "zero rate", status: http.StatusOK, body: `{"base":"USD","rates":{"EUR":0}}`, wantKind: entities.MalformedBody, wantStatus: 200},
		{name: "different base", status: http.StatusOK, body: `{"base":"EUR","rates":{"USD":1.08}}`, wantKind: entities.MalformedBody, wantStatus: 200},
		{name: "empty rates", status: http.StatusOK, body: `{"base":"USD","rates":{}}`, wantKind: entities.EmptyRates, wantStatus: 200},
		{name: "missing rates", status: http.StatusOK, body: `{"base":"USD"}`, wantKind: entities.EmptyRates, wantStatus: 200},
		{name: "null rates", status: http.StatusOK, body: `{"base":"USD","rates":null}`, wantKind: entities.EmptyRates, wantStatus: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := createMockServer(tt.status, tt.body)
			defer server.Close()

			outcome := newTestClient(server.URL).Fetch(context.Background())

			assert.False(t, outcome.OK())
			assert.Nil(t, outcome.Table)
			require.NotNil(t, outcome.Err)
			assert.Equal(t, tt.wantKind, outcome.Err.Kind)
			assert.Equal(t, tt.wantStatus, outcome.Err.StatusCode)
			// un solo intento, sin retry
			assert.Equal(t, int32(1), atomic.LoadInt32(calls))
		})
	}
}

func TestClient_Fetch_NetworkError(t *testing.T) {
	server, _ := createMockServer(http.StatusOK, sampleBody)
	url := server.URL
	server.Close()

	outcome := newTestClient(url).Fetch(context.Background())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, entities.NetworkError, outcome.Err.Kind)
	assert.ErrorIs(t, outcome.Err, entities.ErrNetwork)
}

func TestClient_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.httpClient.Timeout = 20 * time.Millisecond

	outcome := client.Fetch(context.Background())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, entities.NetworkError, outcome.Err.Kind)
}

func TestClient_Fetch_InvalidURL(t *testing.T) {
	outcome := newTestClient("://bad-url").Fetch(context.Background())

	require.NotNil(t, outcome.Err)
	assert.Equal(t, entities.NetworkError, outcome.Err.Kind)
}

func TestClient_Fetch_SendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.userAgent = "fx-rates-service/test"

	require.True(t, client.Fetch(context.Background()).OK())
	assert.Equal(t, "fx-rates-service/test", gotUA)
	assert.Equal(t, "application/json", gotAccept)
}
