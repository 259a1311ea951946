package shape

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/kailas-cloud/xydex/internal/domain"
)

// geoJSONTypes maps lower-cased type names to the GeoJSON spelling.
var geoJSONTypes = map[string]string{
	"point":           "Point",
	"linestring":      "LineString",
	"polygon":         "Polygon",
	"multipoint":      "MultiPoint",
	"multilinestring": "MultiLineString",
	"multipolygon":    "MultiPolygon",
}

type geoJSONObject struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates"`
	Geometries  []json.RawMessage `json:"geometries"`
	Radius      json.RawMessage   `json:"radius"`
}

// FromGeoJSON decodes a GeoJSON geometry. Type names are case-insensitive and
// the "envelope" ([[minX, maxY], [maxX, minY]]) and "circle" extensions are
// accepted.
func FromGeoJSON(data []byte) (Shape, error) {
	var obj geoJSONObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, domain.InvalidGeometry("malformed GeoJSON: %v", err)
	}

	switch t := strings.ToLower(obj.Type); t {
	case "":
		return nil, domain.InvalidGeometry("shape type is required")
	case "envelope":
		return envelopeFromGeoJSON(obj.Coordinates)
	case "circle":
		return circleFromGeoJSON(obj)
	case "geometrycollection":
		shapes := make([]Shape, 0, len(obj.Geometries))
		for i, raw := range obj.Geometries {
			s, err := FromGeoJSON(raw)
			if err != nil {
				return nil, fmt.Errorf("geometries[%d]: %w", i, err)
			}
			shapes = append(shapes, s)
		}
		return GeometryCollection{Shapes: shapes}, nil
	default:
		name, ok := geoJSONTypes[t]
		if !ok {
			return nil, domain.InvalidGeometry("unknown shape type [%s]", obj.Type)
		}
		canonical, err := json.Marshal(struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		}{name, obj.Coordinates})
		if err != nil {
			return nil, domain.InvalidGeometry("%v", err)
		}
		var g geom.T
		if err := geojson.Unmarshal(canonical, &g); err != nil {
			return nil, domain.InvalidGeometry("malformed %s: %v", obj.Type, err)
		}
		return FromGeom(g)
	}
}

func envelopeFromGeoJSON(raw json.RawMessage) (Shape, error) {
	var corners [][]float64
	if err := json.Unmarshal(raw, &corners); err != nil {
		return nil, domain.InvalidGeometry("malformed envelope coordinates: %v", err)
	}
	if len(corners) != 2 || len(corners[0]) < 2 || len(corners[1]) < 2 {
		return nil, domain.InvalidGeometry("envelope requires [[minX, maxY], [maxX, minY]]")
	}
	return NewRectangle(corners[0][0], corners[1][0], corners[1][1], corners[0][1])
}

func circleFromGeoJSON(obj geoJSONObject) (Shape, error) {
	var center []float64
	if err := json.Unmarshal(obj.Coordinates, &center); err != nil || len(center) < 2 {
		return nil, domain.InvalidGeometry("circle requires [x, y] coordinates")
	}
	radius, err := parseRadius(obj.Radius)
	if err != nil {
		return nil, err
	}
	return Circle{X: center[0], Y: center[1], Radius: radius}, nil
}

func parseRadius(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, domain.InvalidGeometry("circle requires a radius")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, domain.InvalidGeometry("invalid circle radius [%s]", s)
		}
		return f, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, domain.InvalidGeometry("invalid circle radius %s", raw)
	}
	return f, nil
}

var bboxRegex = regexp.MustCompile(`(?i)^\s*(?:BBOX|ENVELOPE)\s*\(([^)]*)\)\s*$`)

// FromWKT decodes a WKT geometry. BBOX(minX, maxX, maxY, minY) and its
// ENVELOPE alias are accepted as rectangles.
func FromWKT(s string) (Shape, error) {
	if m := bboxRegex.FindStringSubmatch(s); m != nil {
		return bboxFromWKT(m[1])
	}
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, domain.InvalidGeometry("Invalid WKT format: %v", err)
	}
	return FromGeom(g)
}

func bboxFromWKT(args string) (Shape, error) {
	parts := strings.Split(args, ",")
	if len(parts) != 4 {
		return nil, domain.InvalidGeometry("BBOX requires 4 values (minX, maxX, maxY, minY), found %d", len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, domain.InvalidGeometry("invalid BBOX value [%s]", strings.TrimSpace(p))
		}
		v[i] = f
	}
	return NewRectangle(v[0], v[1], v[3], v[2])
}

// FromGeom converts a decoded go-geom geometry into a Shape.
func FromGeom(g geom.T) (Shape, error) {
	switch v := g.(type) {
	case *geom.Point:
		if v.Empty() {
			return nil, domain.InvalidGeometry("empty point")
		}
		return Point{X: v.X(), Y: v.Y()}, nil
	case *geom.LineString:
		return Line{Coords: xyCoords(v.Coords())}, nil
	case *geom.LinearRing:
		return LinearRing{Coords: xyCoords(v.Coords())}, nil
	case *geom.Polygon:
		return polygonFromGeom(v)
	case *geom.MultiPoint:
		points := make([]Point, 0, v.NumPoints())
		for i := 0; i < v.NumPoints(); i++ {
			p := v.Point(i)
			points = append(points, Point{X: p.X(), Y: p.Y()})
		}
		return MultiPoint{Points: points}, nil
	case *geom.MultiLineString:
		lines := make([]Line, 0, v.NumLineStrings())
		for i := 0; i < v.NumLineStrings(); i++ {
			lines = append(lines, Line{Coords: xyCoords(v.LineString(i).Coords())})
		}
		return MultiLine{Lines: lines}, nil
	case *geom.MultiPolygon:
		polys := make([]Polygon, 0, v.NumPolygons())
		for i := 0; i < v.NumPolygons(); i++ {
			p, err := polygonFromGeom(v.Polygon(i))
			if err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
			polys = append(polys, p)
		}
		return MultiPolygon{Polygons: polys}, nil
	case *geom.GeometryCollection:
		shapes := make([]Shape, 0, v.NumGeoms())
		for i, child := range v.Geoms() {
			s, err := FromGeom(child)
			if err != nil {
				return nil, fmt.Errorf("geometry %d: %w", i, err)
			}
			shapes = append(shapes, s)
		}
		return GeometryCollection{Shapes: shapes}, nil
	default:
		return nil, domain.InvalidGeometry("unsupported geometry %T", g)
	}
}

func polygonFromGeom(p *geom.Polygon) (Polygon, error) {
	rings := make([][]geom.Coord, 0, p.NumLinearRings())
	for i := 0; i < p.NumLinearRings(); i++ {
		rings = append(rings, xyCoords(p.LinearRing(i).Coords()))
	}
	return NewPolygon(rings...)
}

func xyCoords(coords []geom.Coord) []geom.Coord {
	out := make([]geom.Coord, len(coords))
	for i, c := range coords {
		out[i] = geom.Coord{c[0], c[1]}
	}
	return out
}
