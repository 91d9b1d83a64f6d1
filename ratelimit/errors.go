package ratelimit

import "errors"

// Sentinel errors for admission control.
var (
	// ErrUnknownStrategy is returned when a limiter is configured with a
	// strategy name that is not one of the supported algorithms.
	ErrUnknownStrategy = errors.New("ratelimit: unknown strategy")

	// ErrLimitExceeded is returned by TryExecute when admission is denied.
	ErrLimitExceeded = errors.New("ratelimit: rate limit exceeded")
)
