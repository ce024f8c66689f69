package service

import (
	"errors"
	"time"
)

var (
	// ErrInvalidInput marks a request rejected before any lookup.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRateLimited marks a request denied by the rate limiter.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrProviderUnavailable marks a failed call to the geocoding provider.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// RateLimitMessage is the human-readable text of a rate limit denial.
const RateLimitMessage = "Too many requests. Please wait a bit before trying again."

// RateLimitError is returned when an identity has no tokens left.
type RateLimitError struct {
	Identity   string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return RateLimitMessage
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
