// Package service implements the geolocation gateway: every lookup goes through the result
// cache, then the rate limiter, then the geocoding provider.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/compass/internal/cache"
	"github.com/UnknownOlympus/compass/internal/geocoding"
	"github.com/UnknownOlympus/compass/internal/metrics"
	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/UnknownOlympus/compass/internal/parser"
	"github.com/UnknownOlympus/compass/internal/ratelimit"
	"golang.org/x/sync/singleflight"
)

// Operation names used in logs and metrics.
const (
	OpValidate    = "validate"
	OpCoordinates = "coordinates"
	OpNearby      = "nearby"
)

// DefaultRadius is the nearby search radius in meters used when none is given.
const DefaultRadius = 1500

// Messages of results rejected before any lookup.
const (
	MsgEmptyAddress       = "Address cannot be empty."
	MsgInvalidCoordinates = "Invalid coordinates."
	MsgUnknownAddress     = "Invalid or unrecognized address."
	StatusError           = "ERROR"
)

// Default TTLs per result kind and provider call timeout.
const (
	DefaultValidationTTL   = 24 * time.Hour
	DefaultCoordinatesTTL  = 24 * time.Hour
	DefaultNearbyTTL       = time.Hour
	DefaultProviderTimeout = 5 * time.Second
)

// Limiter admits or denies a request for an identity.
type Limiter interface {
	Admit(identity string) ratelimit.Decision
}

// Options holds the cache TTLs and the provider timeout. Zero values select the defaults.
type Options struct {
	ValidationTTL   time.Duration
	CoordinatesTTL  time.Duration
	NearbyTTL       time.Duration
	ProviderTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.ValidationTTL <= 0 {
		o.ValidationTTL = DefaultValidationTTL
	}
	if o.CoordinatesTTL <= 0 {
		o.CoordinatesTTL = DefaultCoordinatesTTL
	}
	if o.NearbyTTL <= 0 {
		o.NearbyTTL = DefaultNearbyTTL
	}
	if o.ProviderTimeout <= 0 {
		o.ProviderTimeout = DefaultProviderTimeout
	}

	return o
}

// GeolocationService validates addresses, geocodes them and searches nearby places.
// It is safe for concurrent use.
type GeolocationService struct {
	log          *slog.Logger       // Logger for service activities
	provider     geocoding.Provider // Geocoding provider for external lookups
	providerName string             // Name of the provider for metrics labeling
	limiter      Limiter            // Per-identity admission
	store        cache.Store        // Result cache shared by all result kinds
	metrics      *metrics.Metrics   // Metrics for tracking service performance
	opts         Options

	group singleflight.Group // coalesces provider calls per fingerprint
}

// NewGeolocationService creates a new GeolocationService from its collaborators.
func NewGeolocationService(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	limiter Limiter,
	store cache.Store,
	metrics *metrics.Metrics,
	opts Options,
) *GeolocationService {
	return &GeolocationService{
		log:          log,
		provider:     provider,
		providerName: providerName,
		limiter:      limiter,
		store:        store,
		metrics:      metrics,
		opts:         opts.withDefaults(),
	}
}

// ValidateAddress checks that the requested address exists and returns its normalized form,
// coordinates and address parts.
func (gs *GeolocationService) ValidateAddress(
	ctx context.Context,
	req models.AddressRequest,
	identity string,
) (models.AddressValidationResult, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		gs.metrics.Requests.WithLabelValues(OpValidate, metrics.OutcomeInvalid).Inc()
		return models.AddressValidationResult{
			OriginalAddress:   req.Address,
			ValidationMessage: MsgEmptyAddress,
		}, fmt.Errorf("%w: address is blank", ErrInvalidInput)
	}
	countryCode := strings.TrimSpace(req.CountryCode)

	key := cache.ValidationKey(address, countryCode)
	if cached, ok := lookup[models.AddressValidationResult](ctx, gs, OpValidate, key); ok {
		cached = forCaller(cached, req.Address)
		gs.metrics.Requests.WithLabelValues(OpValidate, metrics.OutcomeSuccess).Inc()
		return cached, nil
	}

	if err := gs.admit(ctx, OpValidate, identity); err != nil {
		return parser.Validation(req.Address, nil), err
	}

	result, err := load(ctx, gs, OpValidate, key, gs.opts.ValidationTTL,
		func(ctx context.Context) (models.AddressValidationResult, error) {
			doc, err := gs.provider.Geocode(ctx, address, countryCode)
			if err != nil {
				return models.AddressValidationResult{}, err
			}
			return parser.Validation(req.Address, doc), nil
		})
	if err != nil {
		return parser.Validation(req.Address, nil), err
	}

	return forCaller(result, req.Address), nil
}

// GetCoordinates geocodes an address to a latitude/longitude pair.
func (gs *GeolocationService) GetCoordinates(
	ctx context.Context,
	address, identity string,
) (models.CoordinatesResult, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		gs.metrics.Requests.WithLabelValues(OpCoordinates, metrics.OutcomeInvalid).Inc()
		return models.CoordinatesResult{
			OriginalAddress: address,
			Message:         MsgEmptyAddress,
		}, fmt.Errorf("%w: address is blank", ErrInvalidInput)
	}

	key := cache.CoordinatesKey(trimmed)
	if cached, ok := lookup[models.CoordinatesResult](ctx, gs, OpCoordinates, key); ok {
		cached.OriginalAddress = address
		gs.metrics.Requests.WithLabelValues(OpCoordinates, metrics.OutcomeSuccess).Inc()
		return cached, nil
	}

	if err := gs.admit(ctx, OpCoordinates, identity); err != nil {
		return parser.Coordinates(address, nil), err
	}

	result, err := load(ctx, gs, OpCoordinates, key, gs.opts.CoordinatesTTL,
		func(ctx context.Context) (models.CoordinatesResult, error) {
			doc, err := gs.provider.Geocode(ctx, trimmed, "")
			if err != nil {
				return models.CoordinatesResult{}, err
			}
			return parser.Coordinates(address, doc), nil
		})
	if err != nil {
		return parser.Coordinates(address, nil), err
	}

	result.OriginalAddress = address

	return result, nil
}

// FindNearbyPlaces lists places within radius meters of a point, optionally of one place type.
// A non-positive radius selects DefaultRadius.
func (gs *GeolocationService) FindNearbyPlaces(
	ctx context.Context,
	lat, lng float64,
	radius int,
	placeType, identity string,
) (models.NearbyPlacesResult, error) {
	if !validCoordinates(lat, lng) {
		gs.metrics.Requests.WithLabelValues(OpNearby, metrics.OutcomeInvalid).Inc()
		return errorPlaces(MsgInvalidCoordinates), fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	placeType = strings.TrimSpace(placeType)

	key := cache.NearbyKey(lat, lng, radius, placeType)
	if cached, ok := lookup[models.NearbyPlacesResult](ctx, gs, OpNearby, key); ok {
		gs.metrics.Requests.WithLabelValues(OpNearby, metrics.OutcomeSuccess).Inc()
		return cached, nil
	}

	if err := gs.admit(ctx, OpNearby, identity); err != nil {
		return parser.NearbyPlaces(nil), err
	}

	query := geocoding.NearbyQuery{Latitude: lat, Longitude: lng, Radius: radius, PlaceType: placeType}
	result, err := load(ctx, gs, OpNearby, key, gs.opts.NearbyTTL,
		func(ctx context.Context) (models.NearbyPlacesResult, error) {
			doc, err := gs.provider.NearbySearch(ctx, query)
			if err != nil {
				return models.NearbyPlacesResult{}, err
			}
			return parser.NearbyPlaces(doc), nil
		})
	if err != nil {
		return parser.NearbyPlaces(nil), err
	}

	return result, nil
}

// FindNearbyPlacesByAddress geocodes the address and searches around the resulting point.
// Both steps go through the cache and the rate limiter.
func (gs *GeolocationService) FindNearbyPlacesByAddress(
	ctx context.Context,
	address string,
	radius int,
	placeType, identity string,
) (models.NearbyPlacesResult, error) {
	if strings.TrimSpace(address) == "" {
		gs.metrics.Requests.WithLabelValues(OpNearby, metrics.OutcomeInvalid).Inc()
		return errorPlaces(MsgEmptyAddress), fmt.Errorf("%w: address is blank", ErrInvalidInput)
	}

	coords, err := gs.GetCoordinates(ctx, address, identity)
	if err != nil {
		return parser.NearbyPlaces(nil), err
	}

	lat, errLat := strconv.ParseFloat(coords.Latitude, 64)
	lng, errLng := strconv.ParseFloat(coords.Longitude, 64)
	if !coords.HasCoordinates() || errLat != nil || errLng != nil {
		gs.log.DebugContext(ctx, "Address has no coordinates, skipping nearby search", "address", address)
		gs.metrics.Requests.WithLabelValues(OpNearby, metrics.OutcomeInvalid).Inc()
		return errorPlaces(MsgUnknownAddress), fmt.Errorf("%w: address could not be geocoded", ErrInvalidInput)
	}

	return gs.FindNearbyPlaces(ctx, lat, lng, radius, placeType, identity)
}

// admit consults the rate limiter for identity.
func (gs *GeolocationService) admit(ctx context.Context, operation, identity string) error {
	if identity = strings.TrimSpace(identity); identity == "" {
		identity = ratelimit.UnknownIdentity
	}

	decision := gs.limiter.Admit(identity)
	if decision.Allowed {
		gs.metrics.RateLimitDecision.WithLabelValues(metrics.DecisionAllowed).Inc()
		gs.log.DebugContext(ctx, "Request admitted",
			"operation", operation, "identity", identity, "remaining", decision.Remaining)
		return nil
	}

	gs.metrics.RateLimitDecision.WithLabelValues(metrics.DecisionDenied).Inc()
	gs.metrics.Requests.WithLabelValues(operation, metrics.OutcomeRateLimited).Inc()
	gs.log.WarnContext(ctx, "Rate limit exceeded",
		"operation", operation, "identity", identity, "retry_after", decision.RetryAfter)

	return &RateLimitError{Identity: identity, RetryAfter: decision.RetryAfter}
}

// lookup reads and decodes a cached result. Store and decode failures count as misses.
func lookup[T any](ctx context.Context, gs *GeolocationService, operation, key string) (T, bool) {
	var result T

	raw, err := gs.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			gs.metrics.CacheLookups.WithLabelValues(operation, metrics.CacheMiss).Inc()
		} else {
			gs.metrics.CacheLookups.WithLabelValues(operation, metrics.CacheError).Inc()
			gs.log.WarnContext(ctx, "Cache lookup failed, treating as miss", "key", key, "error", err)
		}
		return result, false
	}

	if err = json.Unmarshal(raw, &result); err != nil {
		gs.metrics.CacheLookups.WithLabelValues(operation, metrics.CacheError).Inc()
		gs.log.WarnContext(ctx, "Cached value is corrupt, treating as miss", "key", key, "error", err)
		return result, false
	}

	gs.metrics.CacheLookups.WithLabelValues(operation, metrics.CacheHit).Inc()
	gs.log.DebugContext(ctx, "Cache hit", "key", key)

	return result, true
}

// load calls the provider through fetch, coalescing concurrent calls for the same key,
// and caches the parsed result. Failures are not cached.
func load[T any](
	ctx context.Context,
	gs *GeolocationService,
	operation, key string,
	ttl time.Duration,
	fetch func(ctx context.Context) (T, error),
) (T, error) {
	value, err, _ := gs.group.Do(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gs.opts.ProviderTimeout)
		defer cancel()

		startTime := time.Now()
		result, err := fetch(callCtx)
		duration := time.Since(startTime).Seconds()
		gs.metrics.RequestSeconds.WithLabelValues(gs.providerName, operation).Observe(duration)

		if err != nil {
			gs.metrics.APIErrors.Inc()
			gs.log.ErrorContext(ctx, "Geocoding provider call failed", "operation", operation, "error", err)
			return result, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
		}

		gs.remember(ctx, key, result, ttl)

		return result, nil
	})
	if err != nil {
		gs.metrics.Requests.WithLabelValues(operation, metrics.OutcomeUnavailable).Inc()
		var zero T
		return zero, err
	}

	gs.metrics.Requests.WithLabelValues(operation, metrics.OutcomeSuccess).Inc()
	result, _ := value.(T)

	return result, nil
}

// remember stores a result; failures are logged and otherwise ignored.
func (gs *GeolocationService) remember(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		gs.log.WarnContext(ctx, "Failed to encode result for cache", "key", key, "error", err)
		return
	}

	if err = gs.store.Set(ctx, key, raw, ttl); err != nil {
		gs.log.WarnContext(ctx, "Failed to store result in cache", "key", key, "error", err)
	}
}

// forCaller rebinds a shared validation result to the caller's address. A normalized address
// that only echoes the requesting input follows the caller as well.
func forCaller(result models.AddressValidationResult, address string) models.AddressValidationResult {
	if result.IsValid && result.NormalizedAddress == result.OriginalAddress {
		result.NormalizedAddress = address
	}
	result.OriginalAddress = address

	return result
}

func validCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}

	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func errorPlaces(message string) models.NearbyPlacesResult {
	return models.NearbyPlacesResult{Status: StatusError, Message: message, Places: []models.Place{}}
}
