package subtitle

import (
	"errors"
	"fmt"
)

// ErrMalformedTimestamp is matched by every error that aborts a parse.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// TimestampError describes the timestamp line that aborted a parse.
type TimestampError struct {
	// Line is the 1-based physical line number.
	Line int
	// Input is the raw timestamp line.
	Input string
	// Field is the 0-based field (hours, minutes, seconds) that failed, or -1
	// when no field could be located.
	Field  int
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *TimestampError) Error() string {
	msg := fmt.Sprintf("invalid timestamp %q: %s", e.Input, e.Reason)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *TimestampError) Is(target error) bool {
	if target == ErrMalformedTimestamp {
		return true
	}
	_, ok := target.(*TimestampError)
	return ok
}
