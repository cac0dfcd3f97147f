package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: time.Second},
		baseURL:    baseURL,
		logger:     discardLogger(),
	}
}

func TestCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "44.1000", q.Get("latitude"))
		assert.Equal(t, "-72.8000", q.Get("longitude"))
		assert.Equal(t, "temperature_2m,wind_speed_10m", q.Get("current"))
		assert.Equal(t, "fahrenheit", q.Get("temperature_unit"))
		assert.Equal(t, "mph", q.Get("wind_speed_unit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current":{"temperature_2m":27.4,"wind_speed_10m":11.2}}`))
	}))
	defer srv.Close()

	obs, err := testClient(srv.URL).Current(context.Background(), 44.1, -72.8)
	require.NoError(t, err)

	require.NotNil(t, obs.TemperatureF)
	assert.Equal(t, 27.4, *obs.TemperatureF)
	require.NotNil(t, obs.WindSpeedMPH)
	assert.Equal(t, 11.2, *obs.WindSpeedMPH)
}

func TestCurrent_PartialObservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":30.1}}`))
	}))
	defer srv.Close()

	obs, err := testClient(srv.URL).Current(context.Background(), 44.1, -72.8)
	require.NoError(t, err)

	require.NotNil(t, obs.TemperatureF)
	assert.Equal(t, 30.1, *obs.TemperatureF)
	assert.Nil(t, obs.WindSpeedMPH)
}

func TestCurrent_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Current(context.Background(), 44.1, -72.8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestCurrent_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Current(context.Background(), 44.1, -72.8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
