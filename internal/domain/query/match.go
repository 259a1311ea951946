package query

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// Contains reports whether (x, y) lies in the box, bounds inclusive.
func (q Box) Contains(x, y float64) bool {
	return x >= q.MinX && x <= q.MaxX && y >= q.MinY && y <= q.MaxY
}

// Contains reports whether (x, y) lies in any polygon of the set.
// Polygon boundaries match; points strictly inside a hole do not.
func (q PolygonSet) Contains(x, y float64) bool {
	for _, p := range q.Polygons {
		if polygonContains(p, geom.Coord{x, y}) {
			return true
		}
	}
	return false
}

// Bounds returns the bounding box of the set. ok is false for an empty set.
func (q PolygonSet) Bounds() (b Box, ok bool) {
	var bounds *geom.Bounds
	for _, p := range q.Polygons {
		if p == nil || p.Empty() {
			continue
		}
		if bounds == nil {
			bounds = geom.NewBounds(geom.XY)
		}
		bounds.Extend(p)
	}
	if bounds == nil {
		return Box{}, false
	}
	return Box{
		Field:  q.Field,
		Source: q.Source,
		MinX:   bounds.Min(0),
		MaxX:   bounds.Max(0),
		MinY:   bounds.Min(1),
		MaxY:   bounds.Max(1),
	}, true
}

func polygonContains(p *geom.Polygon, c geom.Coord) bool {
	if p == nil || p.NumLinearRings() == 0 {
		return false
	}
	layout := p.Layout()
	if !xy.IsPointInRing(layout, c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.LocatePointInRing(layout, c, p.LinearRing(i).FlatCoords()) == location.Interior {
			return false
		}
	}
	return true
}
