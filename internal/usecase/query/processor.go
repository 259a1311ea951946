package query

import (
	"github.com/kailas-cloud/xydex/internal/domain"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
	"github.com/kailas-cloud/xydex/internal/domain/shape"
	"github.com/kailas-cloud/xydex/internal/domain/xy"
	"github.com/kailas-cloud/xydex/internal/metrics"
)

// FieldRegistry resolves field names to their mapping.
type FieldRegistry interface {
	Resolve(name string) (field.Descriptor, error)
}

// Processor validates a spatial request against the field mapping and
// compiles it.
type Processor struct {
	compiler *Compiler
}

// NewProcessor creates a processor.
func NewProcessor(c *Compiler) *Processor {
	return &Processor{compiler: c}
}

// BuildQuery checks that fieldName is an indexed xy_point field and that the
// relation is INTERSECTS, then compiles the shape.
func (p *Processor) BuildQuery(
	s shape.Shape, fieldName string, relation shape.Relation, registry FieldRegistry,
) (domquery.Query, error) {
	q, err := p.build(s, fieldName, relation, registry)
	metrics.QueriesCompiledTotal.WithLabelValues(shapeLabel(s), resultLabel(err)).Inc()
	return q, err
}

func (p *Processor) build(
	s shape.Shape, fieldName string, relation shape.Relation, registry FieldRegistry,
) (domquery.Query, error) {
	desc, err := registry.Resolve(fieldName)
	if err != nil {
		return nil, err //nolint:wrapcheck // registry errors are already QueryErrors
	}
	if desc.TypeName() != xy.FieldType {
		return nil, domain.NewQueryError(domain.ErrFieldTypeMismatch, fieldName,
			"Expected %s field type for Field [%s] but found %s", xy.FieldType, fieldName, desc.TypeName())
	}
	if relation != shape.Intersects {
		return nil, domain.NewQueryError(domain.ErrUnsupportedRelation, fieldName,
			"%s query relation not supported for Field [%s].", relation, fieldName)
	}

	meta := desc.IndexMetadata()
	if !meta.HasRangeIndex {
		return nil, domain.NewQueryError(domain.ErrFieldNotIndexed, fieldName,
			"Cannot search on field [%s] since it is not indexed.", fieldName)
	}
	return p.compiler.Compile(s, fieldName, relation, meta)
}

func shapeLabel(s shape.Shape) string {
	if s == nil {
		return "NONE"
	}
	return s.Kind().String()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
