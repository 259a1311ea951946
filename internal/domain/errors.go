package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing index.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals an index name collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidSchema signals an invalid mapping or a document that does not fit it.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrFieldNotFound signals a query against an unmapped field.
	ErrFieldNotFound = errors.New("field not found")
	// ErrFieldNotIndexed signals a query against a field without a range index.
	ErrFieldNotIndexed = errors.New("field not indexed")
	// ErrFieldTypeMismatch signals a spatial query against a field of another type.
	ErrFieldTypeMismatch = errors.New("field type mismatch")
	// ErrUnsupportedRelation signals a relation the field type cannot answer.
	ErrUnsupportedRelation = errors.New("unsupported relation")
	// ErrUnsupportedShape signals a query shape the field type cannot compile.
	ErrUnsupportedShape = errors.New("unsupported shape")
	// ErrInvalidGeometry signals a structurally invalid query shape.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

// QueryError wraps one of the query sentinels with the field it concerns
// and a user-facing message.
type QueryError struct {
	Kind  error
	Field string
	Msg   string
}

func (e *QueryError) Error() string { return e.Msg }

func (e *QueryError) Unwrap() error { return e.Kind }

// NewQueryError creates a QueryError with a formatted message.
func NewQueryError(kind error, field, format string, args ...any) error {
	return &QueryError{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// InvalidGeometry creates an ErrInvalidGeometry error.
func InvalidGeometry(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGeometry, fmt.Sprintf(format, args...))
}
