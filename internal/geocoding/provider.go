package geocoding

import (
	"context"
)

// Provider is an interface that defines the outbound calls made to a geocoding provider.
// Geocode resolves a free-text address, optionally restricted to a country.
// NearbySearch lists places around a point.
// Both return the decoded provider document, or an error when the provider could not be reached.
type Provider interface {
	Geocode(ctx context.Context, address, countryCode string) (*GeocodeDocument, error)
	NearbySearch(ctx context.Context, query NearbyQuery) (*PlacesDocument, error)
}
