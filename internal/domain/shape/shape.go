// Package shape defines the query geometries accepted by spatial queries.
//
// Shape is a closed union: every kind the query layer may receive has a
// concrete type here, including the kinds the point field never supports,
// so consumers can switch over all of them.
package shape

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/xydex/internal/domain"
)

// Kind identifies a shape variant.
type Kind int

// Shape kinds.
const (
	KindPoint Kind = iota
	KindRectangle
	KindPolygon
	KindMultiPolygon
	KindGeometryCollection
	KindLine
	KindLinearRing
	KindMultiLine
	KindMultiPoint
	KindCircle
)

var kindNames = map[Kind]string{
	KindPoint:              "POINT",
	KindRectangle:          "ENVELOPE",
	KindPolygon:            "POLYGON",
	KindMultiPolygon:       "MULTIPOLYGON",
	KindGeometryCollection: "GEOMETRYCOLLECTION",
	KindLine:               "LINESTRING",
	KindLinearRing:         "LINEARRING",
	KindMultiLine:          "MULTILINESTRING",
	KindMultiPoint:         "MULTIPOINT",
	KindCircle:             "CIRCLE",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// Shape is a query geometry.
type Shape interface {
	Kind() Kind
	isShape()
}

// Point is a single coordinate.
type Point struct {
	X, Y float64
}

// Rectangle is an axis-aligned box with inclusive bounds.
type Rectangle struct {
	MinX, MaxX, MinY, MaxY float64
}

// NewRectangle validates bounds ordering.
func NewRectangle(minX, maxX, minY, maxY float64) (Rectangle, error) {
	for _, v := range []float64{minX, maxX, minY, maxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Rectangle{}, domain.InvalidGeometry("rectangle bounds must be finite")
		}
	}
	if minX > maxX {
		return Rectangle{}, domain.InvalidGeometry("rectangle minX [%g] is greater than maxX [%g]", minX, maxX)
	}
	if minY > maxY {
		return Rectangle{}, domain.InvalidGeometry("rectangle minY [%g] is greater than maxY [%g]", minY, maxY)
	}
	return Rectangle{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}, nil
}

// Polygon is a closed outer ring with optional holes.
type Polygon struct {
	poly *geom.Polygon
}

// NewPolygon validates rings and builds a Polygon. The first ring is the
// outer boundary. Every ring needs at least 4 vertices and must be closed.
func NewPolygon(rings ...[]geom.Coord) (Polygon, error) {
	if len(rings) == 0 {
		return Polygon{}, domain.InvalidGeometry("polygon requires an outer ring")
	}
	for i, ring := range rings {
		if len(ring) < 4 {
			return Polygon{}, domain.InvalidGeometry(
				"polygon ring %d must have at least 4 vertices, found %d", i, len(ring))
		}
		first, last := ring[0], ring[len(ring)-1]
		if len(first) < 2 || len(last) < 2 || first[0] != last[0] || first[1] != last[1] {
			return Polygon{}, domain.InvalidGeometry("polygon ring %d is not closed", i)
		}
	}

	flat := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		flat[i] = make([]geom.Coord, len(ring))
		for j, c := range ring {
			flat[i][j] = geom.Coord{c[0], c[1]}
		}
	}
	p, err := geom.NewPolygon(geom.XY).SetCoords(flat)
	if err != nil {
		return Polygon{}, domain.InvalidGeometry("%v", err)
	}
	return Polygon{poly: p}, nil
}

// Native returns the polygon in the geometry engine's representation.
func (p Polygon) Native() *geom.Polygon { return p.poly }

// Outer returns the outer ring vertices.
func (p Polygon) Outer() []geom.Coord {
	if p.poly == nil {
		return nil
	}
	return p.poly.LinearRing(0).Coords()
}

// MultiPolygon is an ordered list of polygons.
type MultiPolygon struct {
	Polygons []Polygon
}

// GeometryCollection is an ordered list of shapes, possibly nested.
type GeometryCollection struct {
	Shapes []Shape
}

// Line is an open line string.
type Line struct {
	Coords []geom.Coord
}

// LinearRing is a closed line string.
type LinearRing struct {
	Coords []geom.Coord
}

// MultiLine is an ordered list of lines.
type MultiLine struct {
	Lines []Line
}

// MultiPoint is an ordered list of points.
type MultiPoint struct {
	Points []Point
}

// Circle is a center and a radius in coordinate units.
type Circle struct {
	X, Y, Radius float64
}

func (Point) Kind() Kind              { return KindPoint }
func (Rectangle) Kind() Kind          { return KindRectangle }
func (Polygon) Kind() Kind            { return KindPolygon }
func (MultiPolygon) Kind() Kind       { return KindMultiPolygon }
func (GeometryCollection) Kind() Kind { return KindGeometryCollection }
func (Line) Kind() Kind               { return KindLine }
func (LinearRing) Kind() Kind         { return KindLinearRing }
func (MultiLine) Kind() Kind          { return KindMultiLine }
func (MultiPoint) Kind() Kind         { return KindMultiPoint }
func (Circle) Kind() Kind             { return KindCircle }

func (Point) isShape()              {}
func (Rectangle) isShape()          {}
func (Polygon) isShape()            {}
func (MultiPolygon) isShape()       {}
func (GeometryCollection) isShape() {}
func (Line) isShape()               {}
func (LinearRing) isShape()         {}
func (MultiLine) isShape()          {}
func (MultiPoint) isShape()         {}
func (Circle) isShape()             {}
