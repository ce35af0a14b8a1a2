package liveview

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidStatus is returned for a status outside the order state set.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition is returned when enforcement is on and the live snapshot
	// shows the order in a state that cannot move to the requested one.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// WriteError reports a rejected status update or dismissal. The local snapshots are
// never changed by a failed write.
type WriteError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
