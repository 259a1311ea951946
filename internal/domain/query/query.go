// Package query is the composed query tree produced by spatial compilation
// and consumed by the storage engines.
package query

import (
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// Source selects the index structure a leaf query runs against.
type Source int

const (
	// RangeIndex is the fast point-search structure.
	RangeIndex Source = iota
	// Columnar is the per-document column store, scanned slowly.
	Columnar
)

func (s Source) String() string {
	if s == Columnar {
		return "columnar"
	}
	return "range"
}

// Query is a node of the composed query tree.
type Query interface {
	String() string
	isQuery()
}

// Box matches points inside an inclusive axis-aligned box.
type Box struct {
	Field                  string
	Source                 Source
	MinX, MaxX, MinY, MaxY float64
}

// PolygonSet matches points inside any of the polygons.
type PolygonSet struct {
	Field    string
	Source   Source
	Polygons []*geom.Polygon
}

// IndexOrColumnar holds two equivalent queries; the executor runs whichever
// is cheaper for its plan.
type IndexOrColumnar struct {
	Primary  Query
	Fallback Query
}

// BooleanFilter matches documents that match every clause (FILTER occurrence).
type BooleanFilter struct {
	Clauses []Query
}

// MatchNone matches no documents.
type MatchNone struct{}

func (Box) isQuery()             {}
func (PolygonSet) isQuery()      {}
func (IndexOrColumnar) isQuery() {}
func (BooleanFilter) isQuery()   {}
func (MatchNone) isQuery()       {}

func (q Box) String() string {
	return "box[" + q.Source.String() + "](" + q.Field + ": " +
		fmtFloat(q.MinX) + " " + fmtFloat(q.MaxX) + " " +
		fmtFloat(q.MinY) + " " + fmtFloat(q.MaxY) + ")"
}

func (q PolygonSet) String() string {
	var sb strings.Builder
	sb.WriteString("polygons[" + q.Source.String() + "](" + q.Field + ":")
	for _, p := range q.Polygons {
		sb.WriteString(" [")
		if p != nil && p.NumLinearRings() > 0 {
			for i, c := range p.LinearRing(0).Coords() {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(fmtFloat(c[0]) + " " + fmtFloat(c[1]))
			}
		}
		sb.WriteString("]")
	}
	sb.WriteString(")")
	return sb.String()
}

func (q IndexOrColumnar) String() string {
	return "index_or_columnar(" + q.Primary.String() + ", " + q.Fallback.String() + ")"
}

func (q BooleanFilter) String() string {
	parts := make([]string, len(q.Clauses))
	for i, c := range q.Clauses {
		parts[i] = "#" + c.String()
	}
	return "bool(" + strings.Join(parts, " ") + ")"
}

func (MatchNone) String() string { return "match_none" }

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
