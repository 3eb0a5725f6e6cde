package application

import (
	"errors"
	"fmt"
)

// ErrSessionExpired indicates confirm ran without a valid pending quote in
// the session: calculate never happened, the quote expired, or a previous
// confirm already consumed it.
var ErrSessionExpired = errors.New("session expired: no pending price to confirm")

// PersistenceError indicates the booking record could not be saved. The
// pending quote has already been consumed at this point, so recovering
// requires a fresh calculate.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not save booking: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
