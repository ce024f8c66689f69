package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(_ *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewBufferString(body)),
		}, nil
	}
}

func TestGoogleRESTProvider_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	apiKey := "test-api-key"

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				// Verify request parameters
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Contains(t, req.URL.String(), geocoding.GoogleGeocodeURL)
				assert.Equal(t, "1600 Amphitheatre Parkway", req.URL.Query().Get("address"))
				assert.Equal(t, "country:US", req.URL.Query().Get("components"))
				assert.Equal(t, apiKey, req.URL.Query().Get("key"))
				assert.Equal(t, "application/json", req.Header.Get("Accept"))

				return respond(http.StatusOK, `{
					"status": "OK",
					"results": [{
						"formatted_address": "1600 Amphitheatre Pkwy, Mountain View, CA 94043, USA",
						"geometry": {"location": {"lat": 37.4, "lng": -122.1}},
						"address_components": [{"long_name": "94043", "types": ["postal_code"]}]
					}]
				}`)(req)
			},
		}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.Geocode(ctx, "1600 Amphitheatre Parkway", "US")

		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "OK", doc.Status.Value)
		require.Len(t, doc.Results, 1)
		lat, lng, ok := doc.Results[0].Geometry.Point()
		require.True(t, ok)
		assert.InEpsilon(t, 37.4, lat, 0.0001)
		assert.InEpsilon(t, -122.1, lng, 0.0001)
	})

	t.Run("no components filter without country", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.False(t, req.URL.Query().Has("components"))
				return respond(http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)(req)
			},
		}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.Geocode(ctx, "nowhere", "")

		require.NoError(t, err)
		assert.Equal(t, geocoding.StatusZeroResults, doc.Status.Value)
	})

	t.Run("provider status is kept verbatim", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `{"status":"OVER_QUERY_LIMIT"}`)}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.Geocode(ctx, "some address", "")

		require.NoError(t, err)
		assert.Equal(t, "OVER_QUERY_LIMIT", doc.Status.Value)
		assert.Nil(t, doc.Results)
	})

	t.Run("wrong-typed fields are left absent", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `{
			"status": "OK",
			"results": [{
				"formatted_address": 42,
				"geometry": {"location": {"lat": "north", "lng": -122.1}},
				"address_components": "none"
			}]
		}`)}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.Geocode(ctx, "some address", "")

		require.NoError(t, err)
		assert.Equal(t, "OK", doc.Status.Value)
		require.Len(t, doc.Results, 1)
		assert.False(t, doc.Results[0].FormattedAddress.Valid)
		assert.Nil(t, doc.Results[0].AddressComponents)
		_, _, ok := doc.Results[0].Geometry.Point()
		assert.False(t, ok)
	})

	t.Run("body that is not JSON degrades to empty document", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `<html>oops</html>`)}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.Geocode(ctx, "some address", "")

		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.False(t, doc.Status.Valid)
		assert.Nil(t, doc.Results)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusBadGateway, `upstream down`)}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.Geocode(ctx, "some address", "")

		require.Error(t, err)
		require.Nil(t, doc)
		assert.Contains(t, err.Error(), "google maps API returned status 502")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.Geocode(ctx, "some address", "")

		require.Error(t, err)
		require.Nil(t, doc)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute request")
	})
}

func TestGoogleRESTProvider_NearbySearch(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	apiKey := "test-api-key"

	t.Run("successful search", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Contains(t, req.URL.String(), geocoding.GooglePlacesURL)
				assert.Equal(t, "50.45,30.52", req.URL.Query().Get("location"))
				assert.Equal(t, "1500", req.URL.Query().Get("radius"))
				assert.Equal(t, "cafe", req.URL.Query().Get("type"))

				return respond(http.StatusOK, `{
					"status": "OK",
					"results": [
						{"name": "Coffee", "vicinity": "Main st", "geometry": {"location": {"lat": 50.1, "lng": 30.1}}},
						{"geometry": {}}
					]
				}`)(req)
			},
		}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.NearbySearch(ctx, geocoding.NearbyQuery{
			Latitude: 50.45, Longitude: 30.52, Radius: 1500, PlaceType: "cafe",
		})

		require.NoError(t, err)
		require.Len(t, doc.Results, 2)
		assert.Equal(t, "Coffee", doc.Results[0].Name.Value)
		assert.False(t, doc.Results[1].Name.Valid)
		assert.False(t, doc.Results[1].Vicinity.Valid)
	})

	t.Run("type is optional", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.False(t, req.URL.Query().Has("type"))
				return respond(http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)(req)
			},
		}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.NearbySearch(ctx, geocoding.NearbyQuery{Latitude: 1, Longitude: 2, Radius: 100})

		require.NoError(t, err)
		assert.NotNil(t, doc.Results)
		assert.Empty(t, doc.Results)
	})

	t.Run("missing results stay absent", func(t *testing.T) {
		mockClient := &mockHTTPClient{doFunc: respond(http.StatusOK, `{"status":"INVALID_REQUEST"}`)}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.NearbySearch(ctx, geocoding.NearbyQuery{Latitude: 1, Longitude: 2, Radius: 100})

		require.NoError(t, err)
		assert.Nil(t, doc.Results)
	})

	t.Run("context cancellation", func(t *testing.T) {
		newCtx, cancel := context.WithCancel(context.Background())
		cancel()

		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, req.Context().Err()
			},
		}

		provider := geocoding.NewGoogleRESTProviderWithClient(mockClient, apiKey, logger)
		doc, err := provider.NearbySearch(newCtx, geocoding.NearbyQuery{Latitude: 1, Longitude: 2, Radius: 100})

		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, doc)
	})
}

func TestNewGoogleRESTProvider(t *testing.T) {
	provider := geocoding.NewGoogleRESTProvider("key", slog.Default())

	require.NotNil(t, provider)
}
