package xy

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every coordinate parsing failure.
var ErrParse = errors.New("failed to parse xy_point")

// Parse error kinds.
var (
	ErrWrongDimensionCount  = errors.New("wrong dimension count")
	ErrInvalidX             = errors.New("invalid x")
	ErrInvalidY             = errors.New("invalid y")
	ErrMissingField         = errors.New("missing field")
	ErrUnknownField         = errors.New("unknown field")
	ErrUnexpectedToken      = errors.New("unexpected token")
	ErrTooManyDimensions    = errors.New("too many dimensions")
	ErrNonNumericElement    = errors.New("non-numeric element")
	ErrUnexpectedZValue     = errors.New("unexpected z value")
	ErrUnsupportedPrimitive = errors.New("unsupported WKT primitive")
	ErrMalformedWKT         = errors.New("malformed WKT")
	ErrMalformedStored      = errors.New("malformed stored value")
)

// ParseError describes a coordinate parsing failure.
// Kind is one of the ErrXxx kinds above; Field names the offending
// coordinate or key when there is one.
type ParseError struct {
	Kind  error
	Field string
	Msg   string
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

// Unwrap exposes the kind and the underlying cause to errors.Is / errors.As.
func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

func newParseError(kind error, field, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}
