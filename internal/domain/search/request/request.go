package request

import (
	"fmt"

	"github.com/kailas-cloud/xydex/internal/domain/shape"
)

// Search parameter limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Request is a validated spatial search.
type Request struct {
	field    string
	shape    shape.Shape
	relation shape.Relation
	limit    int
}

// New validates and normalizes search parameters.
// Defaults: relation=INTERSECTS, limit=10. Limit is clamped to MaxLimit.
// The relation is kept as given; whether the field supports it is decided
// when the query is built.
func New(fieldName string, s shape.Shape, relation shape.Relation, limit int) (Request, error) {
	if fieldName == "" {
		return Request{}, fmt.Errorf("field is required")
	}
	if s == nil {
		return Request{}, fmt.Errorf("shape is required")
	}
	if relation == "" {
		relation = shape.Intersects
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{field: fieldName, shape: s, relation: relation, limit: limit}, nil
}

// Field returns the target field name.
func (r *Request) Field() string { return r.field }

// Shape returns the query geometry.
func (r *Request) Shape() shape.Shape { return r.shape }

// Relation returns the requested spatial relation.
func (r *Request) Relation() shape.Relation { return r.relation }

// Limit returns the maximum number of hits to return.
func (r *Request) Limit() int { return r.limit }
