package environment

import (
	"errors"
	"fmt"
)

// IdentityError is returned when a config update targets a different id than
// the environment it was applied to. It indicates a programming error in the
// caller and must not be retried.
type IdentityError struct {
	ID        string
	Attempted string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("cannot change environment id from %q to %q", e.ID, e.Attempted)
}

// IsIdentityError reports whether err is or wraps an IdentityError.
func IsIdentityError(err error) bool {
	var identityErr *IdentityError
	return errors.As(err, &identityErr)
}
