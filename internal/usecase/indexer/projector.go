// Package indexer turns raw xy_point field values into index artifacts.
package indexer

import (
	"errors"
	"fmt"

	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	"github.com/kailas-cloud/xydex/internal/domain/xy"
)

// ErrInvalidArgument is matched by every projection input error.
var ErrInvalidArgument = errors.New("invalid argument")

// Projection input errors.
var (
	ErrNullInput  = fmt.Errorf("%w: points must not be null", ErrInvalidArgument)
	ErrEmptyInput = fmt.Errorf("%w: points must not be empty", ErrInvalidArgument)
)

// Projector derives the index artifacts of one xy_point field.
type Projector struct {
	field string
	store bool
}

// NewProjector creates a projector for a field. store adds a StoredEntry per point.
func NewProjector(field string, store bool) *Projector {
	return &Projector{field: field, store: store}
}

// Project emits, per point in input order, a RangeEntry, a ColumnarEntry and,
// when storing, a StoredEntry. Duplicate points are projected independently.
func (p *Projector) Project(points []xy.Point) ([]domdoc.Artifact, error) {
	if points == nil {
		return nil, ErrNullInput
	}
	if len(points) == 0 {
		return nil, ErrEmptyInput
	}

	per := 2
	if p.store {
		per = 3
	}
	out := make([]domdoc.Artifact, 0, per*len(points))
	for _, pt := range points {
		out = append(out,
			domdoc.RangeEntry{Field: p.field, X: pt.X(), Y: pt.Y()},
			domdoc.ColumnarEntry{Field: p.field, X: pt.X(), Y: pt.Y()},
		)
		if p.store {
			out = append(out, domdoc.StoredEntry{Field: p.field, Value: pt.String()})
		}
	}
	return out, nil
}
