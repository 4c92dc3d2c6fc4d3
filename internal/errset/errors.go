// Package errset defines the stable error-code taxonomy the engine reports
// across partition boundaries. Codes are part of the wire contract (§6 of
// the specification) and must not be renumbered.
package errset

import "fmt"

// Code is a stable, wire-visible error taxonomy. Zero is always success.
type Code int

const (
	OK Code = iota
	NEGATIVE_STATE
	ALLOC_MEMORY_BUFFER
	UNSUPPORTED_PARALLELIZATION
	SAMPLE_SELECT
	INVALID_RATE
	UNDEFINED_EVENT
)

func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case NEGATIVE_STATE:
		return "NEGATIVE_STATE"
	case ALLOC_MEMORY_BUFFER:
		return "ALLOC_MEMORY_BUFFER"
	case UNSUPPORTED_PARALLELIZATION:
		return "UNSUPPORTED_PARALLELIZATION"
	case SAMPLE_SELECT:
		return "SAMPLE_SELECT"
	case INVALID_RATE:
		return "INVALID_RATE"
	case UNDEFINED_EVENT:
		return "UNDEFINED_EVENT"
	default:
		return "UNKNOWN"
	}
}

// Error wraps a Code with contextual detail. It is the only error type the
// core produces; callers that need the numeric code should use errors.As.
type Error struct {
	Code   Code
	Detail string
}

func New(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Detail)
}

// CodeOf extracts the Code from err, defaulting to OK for a nil error and
// to ALLOC_MEMORY_BUFFER for an error of an unrecognized shape — the core
// never panics, so any escaping error is reported rather than dropped.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if as, ok := err.(*Error); ok {
		e = as
		return e.Code
	}
	return ALLOC_MEMORY_BUFFER
}
