package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded rejects an admission whose slot is full. The
	// submitter must pick another slot; retrying the same one is pointless
	// until something in it is declined.
	ErrCapacityExceeded = errors.New("slot capacity exceeded")

	// ErrNotFound means a decision targeted a request that does not exist.
	ErrNotFound = errors.New("request not found")

	// ErrAlreadyResolved means a decision targeted a request that is
	// already terminal. This is the idempotency contract: replays and
	// losing racers land here, with no state change.
	ErrAlreadyResolved = errors.New("request already resolved")
)

// MalformedTokenError is returned when an operator decision token cannot be
// parsed. The store is never touched for such events.
type MalformedTokenError struct {
	Token  string
	Reason string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed decision token %q: %s", e.Token, e.Reason)
}

// IsMalformedToken reports whether err is a token parse failure.
func IsMalformedToken(err error) bool {
	var mte *MalformedTokenError
	return errors.As(err, &mte)
}
