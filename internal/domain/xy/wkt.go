package xy

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// parseWKT decodes a WKT string that must describe exactly one point.
// The point's (x, y) are taken as-is.
func parseWKT(s string, ignoreZ bool) (Point, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Point{}, &ParseError{Kind: ErrMalformedWKT, Msg: "Invalid WKT format", Cause: err}
	}

	p, ok := g.(*geom.Point)
	if !ok {
		return Point{}, newParseError(ErrUnsupportedPrimitive, "",
			"[%s] supports only POINT among WKT primitives, but found %s", FieldType, TypeName(g))
	}
	if len(p.FlatCoords()) < 2 {
		return Point{}, newParseError(ErrMalformedWKT, "", "Invalid WKT format: empty point")
	}

	switch p.Layout() {
	case geom.XYZ, geom.XYZM:
		if err := checkZ(ignoreZ, p.Z()); err != nil {
			return Point{}, err
		}
	}

	return New(p.X(), p.Y()), nil
}

// TypeName returns the upper-case WKT name of a decoded geometry.
func TypeName(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "POINT"
	case *geom.LineString:
		return "LINESTRING"
	case *geom.LinearRing:
		return "LINEARRING"
	case *geom.Polygon:
		return "POLYGON"
	case *geom.MultiPoint:
		return "MULTIPOINT"
	case *geom.MultiLineString:
		return "MULTILINESTRING"
	case *geom.MultiPolygon:
		return "MULTIPOLYGON"
	case *geom.GeometryCollection:
		return "GEOMETRYCOLLECTION"
	default:
		return fmt.Sprintf("%T", g)
	}
}
