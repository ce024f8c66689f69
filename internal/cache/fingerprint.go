package cache

import (
	"strconv"
	"strings"
)

// Key prefixes keep the three result kinds apart inside one store.
const (
	prefixValidation  = "validation:"
	prefixCoordinates = "coordinates:"
	prefixNearby      = "nearby:"
)

// ValidationKey fingerprints an address validation request as address_countryCode.
func ValidationKey(address, countryCode string) string {
	return prefixValidation + NormalizeAddress(address) + "_" + strings.ToLower(strings.TrimSpace(countryCode))
}

// CoordinatesKey fingerprints a coordinates request.
func CoordinatesKey(address string) string {
	return prefixCoordinates + NormalizeAddress(address)
}

// NearbyKey fingerprints a nearby search as lat_lng_radius_type.
func NearbyKey(lat, lng float64, radius int, placeType string) string {
	var b strings.Builder
	b.WriteString(prefixNearby)
	b.WriteString(strconv.FormatFloat(lat, 'f', -1, 64))
	b.WriteByte('_')
	b.WriteString(strconv.FormatFloat(lng, 'f', -1, 64))
	b.WriteByte('_')
	b.WriteString(strconv.Itoa(radius))
	b.WriteByte('_')
	b.WriteString(strings.TrimSpace(placeType))

	return b.String()
}

// NormalizeAddress collapses runs of whitespace and folds case, so that
// "Main  St" and "main st" share an entry.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
