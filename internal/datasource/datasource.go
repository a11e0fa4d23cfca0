package datasource

import (
	"context"
	"errors"

	"envrepo/internal/environment"
)

// DataSource fetches the current list of environment configs.
//
// Fetch returns configs in the order they should be presented. Failures are
// reported as *FetchError. When ctx is cancelled Fetch returns ctx.Err()
// (possibly wrapped) so callers can tell cancellation from failure.
type DataSource interface {
	Fetch(ctx context.Context) ([]environment.Config, error)
}

// Func adapts a function to the DataSource interface.
type Func func(ctx context.Context) ([]environment.Config, error)

// Fetch calls f(ctx).
func (f Func) Fetch(ctx context.Context) ([]environment.Config, error) {
	return f(ctx)
}

// FetchError reports that a data source could not produce a config list.
type FetchError struct {
	Message string
	Cause   error
}

// NewFetchError creates a FetchError. cause may be nil.
func NewFetchError(message string, cause error) *FetchError {
	return &FetchError{Message: message, Cause: cause}
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsFetchError reports whether err is or wraps a FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}
