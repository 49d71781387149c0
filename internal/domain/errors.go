package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a user-correctable request problem.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable signals that the geocoding provider could not be reached
	// (connection refused, timeout, TLS failure).
	ErrUpstreamUnavailable = errors.New("geocoding provider unavailable")
	// ErrUpstreamError signals that the geocoding provider answered with an error status.
	ErrUpstreamError = errors.New("geocoding provider error")

	// ErrPlannerNotConfigured signals that no itinerary provider credentials are set.
	ErrPlannerNotConfigured = errors.New("itinerary planner not configured")
	// ErrPlannerQuotaExceeded signals an exhausted planner token budget.
	ErrPlannerQuotaExceeded = errors.New("planner quota exceeded")
	// ErrPlannerProviderError signals an itinerary provider failure.
	ErrPlannerProviderError = errors.New("planner provider error")
)

// UpstreamStatusError wraps ErrUpstreamError with the HTTP status the provider returned.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrUpstreamError.Error(), e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstreamError }

// NewUpstreamStatus creates an upstream status error.
func NewUpstreamStatus(statusCode int) error {
	return &UpstreamStatusError{StatusCode: statusCode}
}
