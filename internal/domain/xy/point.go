// Package xy holds the planar point value type and the coordinate parsers
// that turn raw document values into points.
package xy

import (
	"strconv"
	"strings"
)

// FieldType is the mapping name of the planar point field type.
const FieldType = "xy_point"

// Coordinate names used in object form and in error messages.
const (
	X = "x"
	Y = "y"
)

// IgnoreZValueParam is the mapping parameter that controls the z-value policy.
const IgnoreZValueParam = "ignore_z_value"

// Point is an immutable 2-D coordinate without range limitations.
// Two points are equal when both components are exactly equal, so Point
// is usable as a map key.
type Point struct {
	x float64
	y float64
}

// New creates a Point.
func New(x, y float64) Point {
	return Point{x: x, y: y}
}

// X returns the x coordinate.
func (p Point) X() float64 { return p.x }

// Y returns the y coordinate.
func (p Point) Y() float64 { return p.y }

// Equal reports exact equality of both components.
func (p Point) Equal(o Point) bool {
	return p.x == o.x && p.y == o.y
}

// String renders the stored form "Point(x,y)".
// The layout (no space after the comma) is part of the persisted format.
func (p Point) String() string {
	var sb strings.Builder
	sb.WriteString("Point(")
	sb.WriteString(formatCoord(p.x))
	sb.WriteByte(',')
	sb.WriteString(formatCoord(p.y))
	sb.WriteByte(')')
	return sb.String()
}

// WKT renders the point as a WKT POINT.
func (p Point) WKT() string {
	return "POINT (" + formatCoord(p.x) + " " + formatCoord(p.y) + ")"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseStored parses the stored "Point(x,y)" form back into a Point.
func ParseStored(s string) (Point, error) {
	inner, ok := strings.CutPrefix(s, "Point(")
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	if !ok {
		return Point{}, newParseError(ErrMalformedStored, "", "stored value [%s] is not of the form Point(x,y)", s)
	}
	return ParseString(inner, false)
}

// Builder accumulates coordinates during parsing. A Builder can be reused
// across parses; Build only succeeds once both coordinates are set.
type Builder struct {
	x, y       float64
	hasX, hasY bool
}

// SetX sets the x coordinate.
func (b *Builder) SetX(x float64) *Builder {
	b.x = x
	b.hasX = true
	return b
}

// SetY sets the y coordinate.
func (b *Builder) SetY(y float64) *Builder {
	b.y = y
	b.hasY = true
	return b
}

// Reset clears both coordinates.
func (b *Builder) Reset() *Builder {
	*b = Builder{}
	return b
}

// Build finalizes the point. Missing coordinates fail with ErrMissingField.
func (b *Builder) Build() (Point, error) {
	if !b.hasX {
		return Point{}, newParseError(ErrMissingField, X, "field [%s] missing", X)
	}
	if !b.hasY {
		return Point{}, newParseError(ErrMissingField, Y, "field [%s] missing", Y)
	}
	return Point{x: b.x, y: b.y}, nil
}
