package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/UnknownOlympus/agora/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestNominatimProvider_Geocode(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	noLimit := rate.NewLimiter(rate.Inf, 0)

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Contains(t, req.URL.String(), geocoding.NominatimBaseURL)
				assert.Equal(t, "Sha Tin Town Hall", req.URL.Query().Get("q"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "1", req.URL.Query().Get("limit"))
				assert.Equal(t, "hk", req.URL.Query().Get("countrycodes"))
				assert.Contains(t, req.Header.Get("User-Agent"), "Agora-Venue-Importer")

				return jsonResponse(http.StatusOK, `[{"lat":"22.3826","lon":"114.1891"}]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "Sha Tin Town Hall")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 22.3826, coords.Latitude, 0.0001)
		assert.InEpsilon(t, 114.1891, coords.Longitude, 0.0001)
	})

	t.Run("no region filter", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.False(t, req.URL.Query().Has("countrycodes"))
				return jsonResponse(http.StatusOK, `[{"lat":"22.1","lon":"114.1"}]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "", noLimit, logger)
		_, err := provider.Geocode(ctx, "Tai Kwun")

		require.NoError(t, err)
	})

	t.Run("empty query", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called for an empty query")
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "  ")

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyQuery)
		require.Nil(t, coords)
	})

	t.Run("empty response from API", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `[]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "unknown venue")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusTooManyRequests, `{"error":"Rate limit exceeded"}`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "some venue")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `invalid json`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "some venue")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("invalid latitude in response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `[{"lat":"invalid","lon":"114.1"}]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "some venue")

		require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "invalid latitude")
	})

	t.Run("invalid longitude in response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `[{"lat":"22.1","lon":"invalid"}]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "some venue")

		require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "invalid longitude")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "some venue")

		require.ErrorIs(t, err, assert.AnError)
		require.Nil(t, coords)
		assert.Contains(t, err.Error(), "failed to execute geocoding request")
	})

	t.Run("rate limit wait cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(t.Context())
		cancel()
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called when rate limit blocks")
				return nil, assert.AnError
			},
		}

		limiter := rate.NewLimiter(rate.Every(time.Second), 1)
		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", limiter, logger)
		coords, err := provider.Geocode(cancelled, "some venue")

		require.Error(t, err)
		require.Nil(t, coords)
		assert.ErrorContains(t, err, "rate limit exceeded")
	})
}

func TestNominatimProvider_QueryFallback(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	noLimit := rate.NewLimiter(rate.Inf, 0)

	t.Run("falls back to the bare venue name", func(t *testing.T) {
		var queries []string
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				query := req.URL.Query().Get("q")
				queries = append(queries, query)

				if query == "Hong Kong Cultural Centre" {
					return jsonResponse(http.StatusOK, `[{"lat":"22.2938","lon":"114.1705"}]`), nil
				}
				return jsonResponse(http.StatusOK, `[]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "Hong Kong Cultural Centre (Concert Hall), Tsim Sha Tsui")

		require.NoError(t, err)
		require.NotNil(t, coords)
		assert.InEpsilon(t, 22.2938, coords.Latitude, 0.0001)
		assert.Equal(t, []string{
			"Hong Kong Cultural Centre (Concert Hall), Tsim Sha Tsui",
			"Hong Kong Cultural Centre, Tsim Sha Tsui",
			"Hong Kong Cultural Centre (Concert Hall)",
			"Hong Kong Cultural Centre",
		}, queries)
	})

	t.Run("success on first try", func(t *testing.T) {
		requestCount := 0
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				requestCount++
				return jsonResponse(http.StatusOK, `[{"lat":"22.28","lon":"114.15"}]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		_, err := provider.Geocode(ctx, "City Hall (Theatre), Central")

		require.NoError(t, err)
		assert.Equal(t, 1, requestCount)
	})

	t.Run("plain name has no fallback", func(t *testing.T) {
		requestCount := 0
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				requestCount++
				return jsonResponse(http.StatusOK, `[]`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		coords, err := provider.Geocode(ctx, "Ko Shing Theatre")

		require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
		require.Nil(t, coords)
		assert.Equal(t, 1, requestCount)
	})

	t.Run("API error stops the fallback chain", func(t *testing.T) {
		requestCount := 0
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				requestCount++
				return jsonResponse(http.StatusInternalServerError, `oops`), nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, "hk", noLimit, logger)
		_, err := provider.Geocode(ctx, "Tsuen Wan Town Hall (Auditorium), Tsuen Wan")

		require.Error(t, err)
		assert.Equal(t, 1, requestCount)
	})
}

func TestNewNominatimProvider(t *testing.T) {
	provider := geocoding.NewNominatimProvider("hk", slog.Default())

	require.NotNil(t, provider)
}
