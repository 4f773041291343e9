package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidType      = errors.New("invalid type: must be booking_request, venue_request, or booking_confirm")
	ErrInvalidRecipient = errors.New("recipient must not be empty")
	ErrInvalidSeverity  = errors.New("invalid severity: must be info, warning, error, or critical")
	ErrEventTooLong     = errors.New("event_type must be between 1 and 500 characters")
	ErrAmountTooSmall   = errors.New("minimum amount is 50 cents")
	ErrEmailRequired    = errors.New("email is required for receipt")
	ErrNotRequeueable   = errors.New("only failed messages can be requeued")

	// The only two rejection reasons a guard ever surfaces. Both are
	// deliberately generic: a rejected caller learns nothing about
	// counters or limiter health.
	ErrRateLimited        = errors.New("too many requests")
	ErrLimiterUnavailable = errors.New("rate limiter unavailable")
)
