package geocoding

import (
	"bytes"
	"encoding/json"
	"errors"
)

// StatusOK is the provider status of a successful lookup.
const StatusOK = "OK"

// StatusZeroResults is the provider status of a lookup that matched nothing.
const StatusZeroResults = "ZERO_RESULTS"

// Opt is a provider value that may be missing. A value sent with the wrong JSON type
// decodes as missing rather than failing the document.
type Opt[T any] struct {
	Value T
	Valid bool
}

// Some returns a present optional value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler and never fails.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	*o = Opt[T]{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err == nil {
		*o = Some(v)
	}

	return nil
}

// Or returns the value, or fallback when it is missing.
func (o Opt[T]) Or(fallback T) T {
	if !o.Valid {
		return fallback
	}

	return o.Value
}

// GeocodeDocument is the subset of a geocoding response the service consumes.
// Every field is optional; nil slices and pointers mean the provider did not send them.
type GeocodeDocument struct {
	Status  Opt[string]     `json:"status"`
	Results []GeocodeResult `json:"results"`
}

// GeocodeResult is one candidate match of a geocoding lookup.
type GeocodeResult struct {
	FormattedAddress  Opt[string]        `json:"formatted_address"`
	Geometry          *Geometry          `json:"geometry"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// AddressComponent is one typed part of a matched address (postal code, city, ...).
type AddressComponent struct {
	LongName Opt[string] `json:"long_name"`
	Types    []string    `json:"types"`
}

// Geometry wraps the location of a result.
type Geometry struct {
	Location *Location `json:"location"`
}

// Location is a point; either coordinate may be missing.
type Location struct {
	Lat Opt[float64] `json:"lat"`
	Lng Opt[float64] `json:"lng"`
}

// PlacesDocument is the subset of a nearby search response the service consumes.
type PlacesDocument struct {
	Status  Opt[string]   `json:"status"`
	Results []PlaceResult `json:"results"`
}

// PlaceResult is one place of a nearby search.
type PlaceResult struct {
	Name     Opt[string] `json:"name"`
	Vicinity Opt[string] `json:"vicinity"`
	Geometry *Geometry   `json:"geometry"`
}

// NearbyQuery describes a nearby search around a point.
type NearbyQuery struct {
	Latitude  float64
	Longitude float64
	Radius    int    // Radius in meters.
	PlaceType string // Optional place type filter, e.g. "restaurant".
}

// Point returns both coordinates of the location held by geometry.
// ok is false when the geometry, the location or either coordinate is missing.
func (g *Geometry) Point() (lat, lng float64, ok bool) {
	if g == nil || g.Location == nil || !g.Location.Lat.Valid || !g.Location.Lng.Valid {
		return 0, 0, false
	}

	return g.Location.Lat.Value, g.Location.Lng.Value, true
}

// decodeLenient unmarshals body into doc and reports whether body was JSON at all.
// Objects and arrays of the wrong shape are skipped by encoding/json, which keeps decoding
// the rest of the document, so such fields simply stay absent.
func decodeLenient(body []byte, doc any) bool {
	err := json.Unmarshal(body, doc)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &typeErr)
}
