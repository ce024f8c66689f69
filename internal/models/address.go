package models

// AddressRequest is the input of an address validation.
type AddressRequest struct {
	UserID      string `json:"userId,omitempty"`      // UserID identifies the caller for rate limiting.
	Address     string `json:"address"`               // Address is the free-text address to validate.
	CountryCode string `json:"countryCode,omitempty"` // CountryCode optionally restricts results to a country.
}

// AddressValidationResult is the normalized outcome of an address validation.
// IsValid is true only when both NormalizedAddress and the coordinates are set.
type AddressValidationResult struct {
	OriginalAddress   string `json:"originalAddress"`
	NormalizedAddress string `json:"normalizedAddress,omitempty"`
	IsValid           bool   `json:"isValid"`
	Latitude          string `json:"latitude,omitempty"`
	Longitude         string `json:"longitude,omitempty"`
	PostalCode        string `json:"postalCode,omitempty"`
	City              string `json:"city,omitempty"`
	State             string `json:"state,omitempty"`
	Country           string `json:"country,omitempty"`
	ValidationMessage string `json:"validationMessage"`
}

// CoordinatesResult is the outcome of geocoding an address.
// Latitude and Longitude are either both set or both empty.
type CoordinatesResult struct {
	OriginalAddress string `json:"originalAddress"`
	Latitude        string `json:"latitude,omitempty"`
	Longitude       string `json:"longitude,omitempty"`
	Message         string `json:"message"`
}

// HasCoordinates reports whether the address was resolved to a point.
func (c CoordinatesResult) HasCoordinates() bool {
	return c.Latitude != "" && c.Longitude != ""
}
