// Package query turns spatial requests against xy_point fields into
// composed query trees.
package query

import (
	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/xydex/internal/domain"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
	"github.com/kailas-cloud/xydex/internal/domain/shape"
)

// Compiler dispatches on the query shape and builds the composed query.
// It holds no mutable state and is safe for concurrent use.
type Compiler struct {
	b domquery.Builders
}

// NewCompiler creates a compiler over the given query builders.
func NewCompiler(b domquery.Builders) *Compiler {
	return &Compiler{b: b}
}

// Compile builds the query for s against fieldName. The relation is not
// inspected here. A failing member of a collection fails the whole compile.
func (c *Compiler) Compile(
	s shape.Shape, fieldName string, _ shape.Relation, meta field.IndexMetadata,
) (domquery.Query, error) {
	return c.compile(s, fieldName, meta)
}

func (c *Compiler) compile(s shape.Shape, fieldName string, meta field.IndexMetadata) (domquery.Query, error) {
	switch v := s.(type) {
	case nil:
		return nil, domain.InvalidGeometry("query shape is required for field [%s]", fieldName)
	case shape.Rectangle:
		return c.rectangle(v, fieldName, meta), nil
	case shape.Polygon:
		return c.polygons([]shape.Polygon{v}, fieldName, meta)
	case shape.MultiPolygon:
		return c.polygons(v.Polygons, fieldName, meta)
	case shape.GeometryCollection:
		return c.collection(v, fieldName, meta)
	case shape.Point, shape.Line, shape.LinearRing, shape.MultiLine, shape.MultiPoint, shape.Circle:
		return nil, unsupported(fieldName, s)
	default:
		return nil, unsupported(fieldName, s)
	}
}

func (c *Compiler) rectangle(r shape.Rectangle, fieldName string, meta field.IndexMetadata) domquery.Query {
	q := c.b.Range.NewBoxQuery(fieldName, r.MinX, r.MaxX, r.MinY, r.MaxY)
	if !meta.HasColumnarIndex {
		return q
	}
	slow := c.b.Columnar.NewSlowBoxQuery(fieldName, r.MinX, r.MaxX, r.MinY, r.MaxY)
	return c.b.Composite.IndexOrColumnar(q, slow)
}

func (c *Compiler) polygons(polys []shape.Polygon, fieldName string, meta field.IndexMetadata) (domquery.Query, error) {
	if len(polys) == 0 {
		return c.b.Composite.MatchNothing(), nil
	}

	natives := make([]*geom.Polygon, len(polys))
	for i, p := range polys {
		if p.Native() == nil {
			return nil, domain.InvalidGeometry("polygon %d of field [%s] has no rings", i, fieldName)
		}
		natives[i] = p.Native()
	}

	q := c.b.Range.NewPolygonQuery(fieldName, natives)
	if !meta.HasColumnarIndex {
		return q, nil
	}
	slow := c.b.Columnar.NewSlowPolygonQuery(fieldName, natives)
	return c.b.Composite.IndexOrColumnar(q, slow), nil
}

func (c *Compiler) collection(gc shape.GeometryCollection, fieldName string, meta field.IndexMetadata) (domquery.Query, error) {
	if len(gc.Shapes) == 0 {
		return c.b.Composite.MatchNothing(), nil
	}

	clauses := make([]domquery.Query, 0, len(gc.Shapes))
	for _, member := range gc.Shapes {
		q, err := c.compile(member, fieldName, meta)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, q)
	}
	return c.b.Composite.BooleanFilterAll(clauses), nil
}

func unsupported(fieldName string, s shape.Shape) error {
	return domain.NewQueryError(domain.ErrUnsupportedShape, fieldName,
		"Field [%s] found an unsupported shape [%s]", fieldName, s.Kind())
}
