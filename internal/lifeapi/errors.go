package lifeapi

import (
	"errors"
	"fmt"
)

// ErrMalformed marks a response whose shape or values violate the board
// invariants. Such a response is reported and never applied.
var ErrMalformed = errors.New("malformed response")

// StatusError reports a non-2xx reply from the daemon, carrying the error
// message from the body when one was provided.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
