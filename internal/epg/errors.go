package epg

import (
	"errors"
	"fmt"
)

// ErrMalformedFeed means the feed body is not well-formed XML at all.
// Element-level problems use the typed errors below instead.
var ErrMalformedFeed = errors.New("malformed EPG feed")

// MissingFieldError reports a channel or programme element without one of
// its required attributes.
type MissingFieldError struct {
	Element string // "channel" or "programme"
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s element is missing required field %q", e.Element, e.Field)
}

// InvalidTimestampError reports a start/stop attribute that does not match
// the feed's "YYYYMMDDHHMMSS ±HHMM" shape.
type InvalidTimestampError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid %s timestamp %q", e.Field, e.Value)
}

func (e *InvalidTimestampError) Unwrap() error { return e.Err }
