// Package parser turns provider documents into the service's result types.
//
// Every transform is pure and total: missing or malformed parts of a document degrade to
// the documented defaults instead of producing an error.
package parser

import (
	"strconv"

	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/models"
)

// Messages carried by parsed results.
const (
	MsgAddressInvalid   = "Address not found or invalid."
	MsgAddressValidated = "Address validated successfully."

	MsgNotGeocoded = "Address not found or could not be geocoded."
	MsgGeocoded    = "Successfully geocoded."

	MsgNoPlaces      = "No results found or invalid response."
	MsgPlacesFetched = "Nearby places fetched successfully."
	msgPlacesFailed  = "Failed to fetch nearby places. Status: "
)

// Nearby search statuses and place placeholders.
const (
	StatusFailed  = "FAILED"
	StatusUnknown = "UNKNOWN_STATUS"

	UnknownPlaceName = "Unknown"
	NoPlaceAddress   = "No address available"
)

// Address component types mapped onto validation results.
const (
	componentPostalCode = "postal_code"
	componentLocality   = "locality"
	componentState      = "administrative_area_level_1"
	componentCountry    = "country"
)

// Validation builds an address validation result for original from a geocoding document.
// The result is valid only when the status is OK and the first result carries a full location;
// otherwise nothing beyond the original address and the failure message is set. A result
// without a formatted address is normalized to the original address.
func Validation(original string, doc *geocoding.GeocodeDocument) models.AddressValidationResult {
	result := models.AddressValidationResult{
		OriginalAddress:   original,
		IsValid:           false,
		ValidationMessage: MsgAddressInvalid,
	}

	first, ok := firstResult(doc)
	if !ok {
		return result
	}

	lat, lng, ok := first.Geometry.Point()
	normalized := first.FormattedAddress.Value
	if normalized == "" {
		normalized = original
	}
	if !ok || normalized == "" {
		return result
	}

	result.Latitude = formatDecimal(lat)
	result.Longitude = formatDecimal(lng)

	for _, component := range first.AddressComponents {
		if len(component.Types) == 0 || !component.LongName.Valid {
			continue
		}

		name := component.LongName.Value
		switch component.Types[0] {
		case componentPostalCode:
			result.PostalCode = name
		case componentLocality:
			result.City = name
		case componentState:
			result.State = name
		case componentCountry:
			result.Country = name
		}
	}

	result.NormalizedAddress = normalized
	result.IsValid = true
	result.ValidationMessage = MsgAddressValidated

	return result
}

// Coordinates builds a coordinates result for original from a geocoding document.
func Coordinates(original string, doc *geocoding.GeocodeDocument) models.CoordinatesResult {
	result := models.CoordinatesResult{
		OriginalAddress: original,
		Message:         MsgNotGeocoded,
	}

	first, ok := firstResult(doc)
	if !ok {
		return result
	}

	if lat, lng, ok := first.Geometry.Point(); ok {
		result.Latitude = formatDecimal(lat)
		result.Longitude = formatDecimal(lng)
		result.Message = MsgGeocoded
	}

	return result
}

// NearbyPlaces builds a nearby places result from a places document.
// A document without results is a failure whatever its status says.
func NearbyPlaces(doc *geocoding.PlacesDocument) models.NearbyPlacesResult {
	if doc == nil || doc.Results == nil {
		return models.NearbyPlacesResult{
			Status:  StatusFailed,
			Message: MsgNoPlaces,
			Places:  []models.Place{},
		}
	}

	places := make([]models.Place, 0, len(doc.Results))
	for _, res := range doc.Results {
		place := models.Place{
			Name:    res.Name.Or(UnknownPlaceName),
			Address: res.Vicinity.Or(NoPlaceAddress),
		}
		if res.Geometry != nil && res.Geometry.Location != nil {
			place.Latitude = res.Geometry.Location.Lat.Or(0)
			place.Longitude = res.Geometry.Location.Lng.Or(0)
		}
		places = append(places, place)
	}

	status := doc.Status.Or(StatusUnknown)
	message := MsgPlacesFetched
	if status != geocoding.StatusOK {
		message = msgPlacesFailed + status
	}

	return models.NearbyPlacesResult{
		Status:  status,
		Message: message,
		Places:  places,
	}
}

// firstResult returns the first result of an OK document.
func firstResult(doc *geocoding.GeocodeDocument) (geocoding.GeocodeResult, bool) {
	if doc == nil || !doc.Status.Valid || doc.Status.Value != geocoding.StatusOK || len(doc.Results) == 0 {
		return geocoding.GeocodeResult{}, false
	}

	return doc.Results[0], true
}

// formatDecimal renders a coordinate with the fewest digits that round-trip.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
