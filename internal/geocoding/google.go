package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding and places services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the part of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given Google Maps client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// statusError matches the error the maps client builds from a non-OK response status,
// e.g. "maps: OVER_QUERY_LIMIT - You have exceeded your daily request quota".
var statusError = regexp.MustCompile(`^maps: ([A-Z_]+) -`)

// Geocode looks the address up with the Google Maps Geocoding API and converts the typed
// SDK results into a GeocodeDocument. The SDK reports ZERO_RESULTS as an empty result list
// and every other non-OK status as an error; those statuses come back as a document, and
// only transport failures are returned as errors.
func (gp *GoogleProvider) Geocode(ctx context.Context, address, countryCode string) (*GeocodeDocument, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address, "country", countryCode)

	req := maps.GeocodingRequest{Address: address}
	if countryCode != "" {
		req.Components = map[maps.Component]string{maps.ComponentCountry: countryCode}
	}

	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		if status, ok := gp.replyStatus(ctx, err); ok {
			return &GeocodeDocument{Status: Some(status), Results: []GeocodeResult{}}, nil
		}
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return &GeocodeDocument{Status: Some(StatusZeroResults), Results: []GeocodeResult{}}, nil
	}

	results := make([]GeocodeResult, 0, len(geocodeResponse))
	for _, res := range geocodeResponse {
		components := make([]AddressComponent, 0, len(res.AddressComponents))
		for _, comp := range res.AddressComponents {
			components = append(components, AddressComponent{LongName: Some(comp.LongName), Types: comp.Types})
		}

		results = append(results, GeocodeResult{
			FormattedAddress:  Some(res.FormattedAddress),
			Geometry:          geometryFromLatLng(res.Geometry.Location),
			AddressComponents: components,
		})
	}

	return &GeocodeDocument{Status: Some(StatusOK), Results: results}, nil
}

// NearbySearch lists places around the query point with the Places Nearby Search API.
func (gp *GoogleProvider) NearbySearch(ctx context.Context, query NearbyQuery) (*PlacesDocument, error) {
	gp.log.DebugContext(ctx, "Nearby search using Google Maps",
		"lat", query.Latitude, "lng", query.Longitude, "radius", query.Radius, "type", query.PlaceType)

	req := maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: query.Latitude, Lng: query.Longitude},
		Radius:   uint(query.Radius), //nolint:gosec // radius is validated as positive by the service
	}
	if query.PlaceType != "" {
		req.Type = maps.PlaceType(query.PlaceType)
	}

	resp, err := gp.client.NearbySearch(ctx, &req)
	if err != nil {
		if status, ok := gp.replyStatus(ctx, err); ok {
			return &PlacesDocument{Status: Some(status), Results: []PlaceResult{}}, nil
		}
		return nil, fmt.Errorf("failed to search nearby places: %w", err)
	}

	status := StatusOK
	if len(resp.Results) == 0 {
		status = StatusZeroResults
	}

	places := make([]PlaceResult, 0, len(resp.Results))
	for _, res := range resp.Results {
		places = append(places, PlaceResult{
			Name:     Some(res.Name),
			Vicinity: Some(res.Vicinity),
			Geometry: geometryFromLatLng(res.Geometry.Location),
		})
	}

	return &PlacesDocument{Status: Some(status), Results: places}, nil
}

// replyStatus reports the response status carried by a maps client error.
func (gp *GoogleProvider) replyStatus(ctx context.Context, err error) (string, bool) {
	match := statusError.FindStringSubmatch(err.Error())
	if match == nil {
		return "", false
	}

	gp.log.WarnContext(ctx, "Google Maps replied with a non-OK status", "status", match[1], "error", err)

	return match[1], true
}

func geometryFromLatLng(loc maps.LatLng) *Geometry {
	return &Geometry{Location: &Location{Lat: Some(loc.Lat), Lng: Some(loc.Lng)}}
}
