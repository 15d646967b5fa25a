package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/agora/internal/geocoding"
	"github.com/UnknownOlympus/agora/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, "hk", slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		query := "some invalid venue"
		req := &maps.GeocodingRequest{Address: query, Region: "hk"}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, query)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		query := "some invalid venue"
		req := &maps.GeocodingRequest{Address: query, Region: "hk"}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, query)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		query := "Sha Tin Town Hall"
		req := &maps.GeocodingRequest{Address: query, Region: "hk"}
		mockResponse := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 22.3826, Lng: 114.1891}}},
		}

		mockClient.On("Geocode", ctx, req).Return(mockResponse, nil).Once()

		coords, err := provider.Geocode(ctx, query)

		require.NoError(t, err)
		require.NotNil(t, coords)
		require.InEpsilon(t, 22.3826, coords.Latitude, 0.0001)
		require.InEpsilon(t, 114.1891, coords.Longitude, 0.0001)
		mockClient.AssertExpectations(t)
	})
}
