package query

import "github.com/twpayne/go-geom"

// RangeBuilder builds queries over the range index.
type RangeBuilder interface {
	NewBoxQuery(field string, minX, maxX, minY, maxY float64) Query
	NewPolygonQuery(field string, polygons []*geom.Polygon) Query
}

// ColumnarBuilder builds scan-based queries over the columnar index.
type ColumnarBuilder interface {
	NewSlowBoxQuery(field string, minX, maxX, minY, maxY float64) Query
	NewSlowPolygonQuery(field string, polygons []*geom.Polygon) Query
}

// CompositeBuilder combines queries.
type CompositeBuilder interface {
	IndexOrColumnar(primary, fallback Query) Query
	BooleanFilterAll(clauses []Query) Query
	MatchNothing() Query
}

// Builders bundles the query construction collaborators.
type Builders struct {
	Range     RangeBuilder
	Columnar  ColumnarBuilder
	Composite CompositeBuilder
}

// DefaultBuilders returns builders that produce the tree types of this package.
func DefaultBuilders() Builders {
	return Builders{
		Range:     rangeBuilder{},
		Columnar:  columnarBuilder{},
		Composite: compositeBuilder{},
	}
}

type rangeBuilder struct{}

func (rangeBuilder) NewBoxQuery(field string, minX, maxX, minY, maxY float64) Query {
	return Box{Field: field, Source: RangeIndex, MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
}

func (rangeBuilder) NewPolygonQuery(field string, polygons []*geom.Polygon) Query {
	return PolygonSet{Field: field, Source: RangeIndex, Polygons: polygons}
}

type columnarBuilder struct{}

func (columnarBuilder) NewSlowBoxQuery(field string, minX, maxX, minY, maxY float64) Query {
	return Box{Field: field, Source: Columnar, MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
}

func (columnarBuilder) NewSlowPolygonQuery(field string, polygons []*geom.Polygon) Query {
	return PolygonSet{Field: field, Source: Columnar, Polygons: polygons}
}

type compositeBuilder struct{}

func (compositeBuilder) IndexOrColumnar(primary, fallback Query) Query {
	return IndexOrColumnar{Primary: primary, Fallback: fallback}
}

func (compositeBuilder) BooleanFilterAll(clauses []Query) Query {
	return BooleanFilter{Clauses: clauses}
}

func (compositeBuilder) MatchNothing() Query { return MatchNone{} }
