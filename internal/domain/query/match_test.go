package query

import (
	"testing"

	"github.com/twpayne/go-geom"
)

func TestBox_Contains(t *testing.T) {
	b := Box{MinX: -1, MaxX: 1, MinY: -2, MaxY: 2}
	tests := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{-1, -2, true},
		{1, 2, true},
		{1.0001, 0, false},
		{0, -2.5, false},
	}
	for _, tt := range tests {
		if got := b.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%g, %g) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPolygonSet_Contains(t *testing.T) {
	withHole := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}},
		{{4, 4}, {4, 6}, {6, 6}, {6, 4}, {4, 4}},
	})
	far := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{-55, -55}, {-55, -45}, {-45, -45}, {-45, -55}, {-55, -55}},
	})
	q := PolygonSet{Field: "f", Polygons: []*geom.Polygon{withHole, far}}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside outer", 1, 1, true},
		{"on outer boundary", 0, 5, true},
		{"inside hole", 5, 5, false},
		{"on hole boundary", 4, 5, true},
		{"second polygon", -50, -50, true},
		{"outside all", 20, 20, false},
	}
	for _, tt := range tests {
		if got := q.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: Contains(%g, %g) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPolygonSet_Bounds(t *testing.T) {
	a := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}},
	})
	b := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{-5, 3}, {-5, 4}, {-4, 4}, {-4, 3}, {-5, 3}},
	})
	box, ok := PolygonSet{Field: "f", Polygons: []*geom.Polygon{a, b}}.Bounds()
	if !ok {
		t.Fatal("expected bounds")
	}
	want := Box{Field: "f", MinX: -5, MaxX: 1, MinY: 0, MaxY: 4}
	if box != want {
		t.Errorf("Bounds() = %+v, want %+v", box, want)
	}

	if _, ok := (PolygonSet{}).Bounds(); ok {
		t.Error("empty set should have no bounds")
	}
}
