package health

import (
	"context"
	"time"
)

// Result is the outcome of one health check.
type Result struct {
	// Healthy reports whether the component is functioning.
	Healthy bool

	// Error is the failure when Healthy is false, nil otherwise.
	Error error

	// Duration is how long the check took.
	Duration time.Duration

	// CheckedAt is when the check ran.
	CheckedAt time.Time
}

// Checker is one component's health check. Check returns nil when the
// component is healthy; any error marks it unhealthy.
//
// Implementations must be safe for concurrent use and should honor the
// context deadline.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type checkerFunc struct {
	name string
	fn   func(context.Context) error
}

// CheckerFunc adapts an ordinary function to a Checker.
func CheckerFunc(name string, fn func(context.Context) error) Checker {
	return &checkerFunc{name: name, fn: fn}
}

func (f *checkerFunc) Name() string { return f.name }

func (f *checkerFunc) Check(ctx context.Context) error { return f.fn(ctx) }
