package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents the Google Maps provider backed by the official SDK.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeGoogleREST represents the Google Maps provider calling the REST endpoints directly.
	ProviderTypeGoogleREST ProviderType = "google-rest"
)

// ErrMissingAPIKey is returned when a provider that needs a key is configured without one.
var ErrMissingAPIKey = errors.New("API key is required for Google provider")

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type      ProviderType  // Type of provider to create
	APIKey    string        // API key for the Google Maps platform
	RateLimit int           // Client-side requests per second (used by the SDK provider)
	Timeout   time.Duration // Timeout of a single HTTP exchange with the provider
	Logger    *slog.Logger  // Logger for the provider
}

// NewProvider creates a geocoding provider based on the provided configuration.
//
// Supported provider types:
// - "google": Google Maps Geocoding and Places APIs through googlemaps.github.io/maps
// - "google-rest": the same APIs through plain HTTP, keeping provider statuses verbatim
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	switch config.Type {
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	case ProviderTypeGoogleREST:
		return newGoogleRESTProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newGoogleProvider creates a Google Maps SDK provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	}

	// Apply rate limiting if specified
	if config.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(config.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}

// newGoogleRESTProvider creates a Google Maps REST provider.
func newGoogleRESTProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &http.Client{Timeout: config.Timeout}

	return NewGoogleRESTProviderWithClient(client, config.APIKey, config.Logger), nil
}
