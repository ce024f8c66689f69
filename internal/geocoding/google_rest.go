package geocoding

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Google Maps platform REST endpoints.
const (
	GoogleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	GooglePlacesURL  = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
)

const defaultTimeout = 10 * time.Second

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GoogleRESTProvider implements Provider by calling the Google Maps REST endpoints and
// decoding their JSON straight into documents. Unlike the SDK it keeps every provider
// status (OVER_QUERY_LIMIT, REQUEST_DENIED, ...) in the document instead of failing.
type GoogleRESTProvider struct {
	client     HTTPClient   // HTTP client for making requests
	geocodeURL string       // Geocoding endpoint
	placesURL  string       // Nearby search endpoint
	apiKey     string       // API key with Geocoding and Places access
	log        *slog.Logger // Logger for logging operations
}

// NewGoogleRESTProvider creates a REST provider with a default HTTP client.
func NewGoogleRESTProvider(apiKey string, log *slog.Logger) *GoogleRESTProvider {
	return NewGoogleRESTProviderWithClient(&http.Client{Timeout: defaultTimeout}, apiKey, log)
}

// NewGoogleRESTProviderWithClient creates a REST provider with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewGoogleRESTProviderWithClient(client HTTPClient, apiKey string, log *slog.Logger) *GoogleRESTProvider {
	return &GoogleRESTProvider{
		client:     client,
		geocodeURL: GoogleGeocodeURL,
		placesURL:  GooglePlacesURL,
		apiKey:     apiKey,
		log:        log,
	}
}

// Geocode converts an address to a geocoding document.
// The country code, when given, is sent as a components=country:XX filter.
func (gp *GoogleRESTProvider) Geocode(ctx context.Context, address, countryCode string) (*GeocodeDocument, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps REST", "address", address, "country", countryCode)

	params := url.Values{}
	params.Set("address", address)
	if countryCode != "" {
		params.Set("components", "country:"+countryCode)
	}

	body, err := gp.get(ctx, gp.geocodeURL, params)
	if err != nil {
		return nil, err
	}

	var doc GeocodeDocument
	if !decodeLenient(body, &doc) {
		gp.log.WarnContext(ctx, "Google geocoding response is not JSON, degrading to empty document",
			"body", string(body))
		return &GeocodeDocument{}, nil
	}

	return &doc, nil
}

// NearbySearch lists places around a point.
func (gp *GoogleRESTProvider) NearbySearch(ctx context.Context, query NearbyQuery) (*PlacesDocument, error) {
	gp.log.DebugContext(ctx, "Nearby search using Google Maps REST",
		"lat", query.Latitude, "lng", query.Longitude, "radius", query.Radius, "type", query.PlaceType)

	params := url.Values{}
	params.Set("location",
		strconv.FormatFloat(query.Latitude, 'f', -1, 64)+","+strconv.FormatFloat(query.Longitude, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(query.Radius))
	if query.PlaceType != "" {
		params.Set("type", query.PlaceType)
	}

	body, err := gp.get(ctx, gp.placesURL, params)
	if err != nil {
		return nil, err
	}

	var doc PlacesDocument
	if !decodeLenient(body, &doc) {
		gp.log.WarnContext(ctx, "Google places response is not JSON, degrading to empty document",
			"body", string(body))
		return &PlacesDocument{}, nil
	}

	return &doc, nil
}

// get performs one GET exchange and returns the body of a 200 response.
func (gp *GoogleRESTProvider) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params.Set("key", gp.apiKey)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := gp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		gp.log.ErrorContext(ctx, "Google Maps API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("google maps API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
