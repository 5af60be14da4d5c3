package delegation

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when an operation is invoked without
// a signed-in caller.
var ErrUnauthenticated = errors.New("not signed in")

// InvalidStateError indicates a response against an assignment that
// already left the pending status. The transition is one-shot; replays
// and double-clicks surface as this error rather than silently
// re-applying.
type InvalidStateError struct {
	AssignmentID string
	Status       string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("assignment %s is already %s", e.AssignmentID, e.Status)
}

// IsInvalidState reports whether err (or any error in its chain) is an
// InvalidStateError.
func IsInvalidState(err error) bool {
	var ise *InvalidStateError
	return errors.As(err, &ise)
}
