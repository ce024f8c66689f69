package models

// Place is a single point of interest returned by a nearby search.
type Place struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NearbyPlacesResult is the outcome of a nearby search. Places keeps provider order
// and is never nil.
type NearbyPlacesResult struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Places  []Place `json:"places"`
}
