package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xydex/internal/db"
	"github.com/kailas-cloud/xydex/internal/domain"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
	"github.com/kailas-cloud/xydex/internal/logger"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
)

// DefaultPageSize is the number of point hashes fetched per FT.SEARCH call.
const DefaultPageSize = 1000

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	SupportsGeoShape(ctx context.Context) bool
}

// Repo implements usecase/search.Repository on top of FT.SEARCH.
//
// Leaf queries run as an FT.SEARCH prefilter over point hashes: a GEOSHAPE
// INTERSECTS predicate for the range index when the backend has one, numeric
// x/y ranges otherwise. Every candidate point is then checked exactly.
type Repo struct {
	store    store
	keys     keyspace.Keyspace
	pageSize int
}

// New creates a search repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks, pageSize: DefaultPageSize}
}

// WithPageSize overrides the FT.SEARCH page size.
func (r *Repo) WithPageSize(n int) *Repo {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

type docSet map[string]struct{}

// leaf is one FT.SEARCH prefilter plus its exact point test.
type leaf struct {
	field  string
	query  string
	params map[string]string
	match  func(x, y float64) bool
}

// Search executes a compiled query and returns the matching document IDs
// in ascending order.
func (r *Repo) Search(ctx context.Context, collectionName string, q domquery.Query) ([]string, error) {
	geoShape := r.store.SupportsGeoShape(ctx)
	set, err := r.eval(ctx, collectionName, q, geoShape)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Repo) eval(ctx context.Context, collectionName string, q domquery.Query, geoShape bool) (docSet, error) {
	switch q := q.(type) {
	case domquery.Box:
		return r.run(ctx, collectionName, boxLeaf(q, geoShape))
	case domquery.PolygonSet:
		l, ok, err := polygonLeaf(q, geoShape)
		if err != nil {
			return nil, err
		}
		if !ok {
			return docSet{}, nil
		}
		return r.run(ctx, collectionName, l)
	case domquery.IndexOrColumnar:
		if geoShape {
			return r.eval(ctx, collectionName, q.Primary, geoShape)
		}
		return r.eval(ctx, collectionName, q.Fallback, geoShape)
	case domquery.BooleanFilter:
		return r.intersect(ctx, collectionName, q.Clauses, geoShape)
	case domquery.MatchNone:
		return docSet{}, nil
	default:
		return nil, fmt.Errorf("unsupported query node %T", q)
	}
}

func (r *Repo) intersect(
	ctx context.Context, collectionName string, clauses []domquery.Query, geoShape bool,
) (docSet, error) {
	if len(clauses) == 0 {
		return docSet{}, nil
	}
	acc, err := r.eval(ctx, collectionName, clauses[0], geoShape)
	if err != nil {
		return nil, err
	}
	for _, c := range clauses[1:] {
		if len(acc) == 0 {
			return acc, nil
		}
		next, err := r.eval(ctx, collectionName, c, geoShape)
		if err != nil {
			return nil, err
		}
		for id := range acc {
			if _, ok := next[id]; !ok {
				delete(acc, id)
			}
		}
	}
	return acc, nil
}

// run pages through the prefilter results and keeps the documents with at
// least one matching point.
func (r *Repo) run(ctx context.Context, collectionName string, l leaf) (docSet, error) {
	xAttr, yAttr := keyspace.XAttr(l.field), keyspace.YAttr(l.field)
	out := docSet{}
	candidates := 0

	for offset := 0; ; {
		sr, err := r.store.Search(ctx, &db.SearchQuery{
			IndexName:    r.keys.Index(collectionName),
			Query:        l.query,
			Params:       l.params,
			ReturnFields: []string{keyspace.DocAttr, xAttr, yAttr},
			Offset:       offset,
			Limit:        r.pageSize,
			Dialect:      db.DefaultDialect,
		})
		if err != nil {
			if errors.Is(err, db.ErrIndexNotFound) {
				return nil, fmt.Errorf("index %s: %w", collectionName, domain.ErrNotFound)
			}
			return nil, fmt.Errorf("search %s: %w", collectionName, err)
		}

		for _, e := range sr.Entries {
			candidates++
			doc := e.Fields[keyspace.DocAttr]
			if doc == "" {
				continue
			}
			x, errX := strconv.ParseFloat(e.Fields[xAttr], 64)
			y, errY := strconv.ParseFloat(e.Fields[yAttr], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("point %s: bad coordinates %q %q", e.Key, e.Fields[xAttr], e.Fields[yAttr])
			}
			if l.match(x, y) {
				out[doc] = struct{}{}
			}
		}

		offset += len(sr.Entries)
		if len(sr.Entries) == 0 || offset >= sr.Total {
			break
		}
	}

	logger.FromContext(ctx).Debug("leaf executed",
		zap.String("index", collectionName),
		zap.String("query", l.query),
		zap.Int("candidates", candidates),
		zap.Int("docs", len(out)),
	)
	return out, nil
}

// boxLeaf uses GEOSHAPE only for a range-index box with area; a degenerate
// box is not a valid polygon and falls back to numeric ranges.
func boxLeaf(q domquery.Box, geoShape bool) leaf {
	l := leaf{field: q.Field, match: q.Contains}
	if q.Source == domquery.RangeIndex && geoShape && q.MinX < q.MaxX && q.MinY < q.MaxY {
		p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
			{q.MinX, q.MinY}, {q.MinX, q.MaxY}, {q.MaxX, q.MaxY}, {q.MaxX, q.MinY}, {q.MinX, q.MinY},
		}})
		s, err := wkt.Marshal(p)
		if err == nil {
			l.query = intersects(q.Field, "shape")
			l.params = map[string]string{"shape": s}
			return l
		}
	}
	l.query = numericBox(q.Field, q.MinX, q.MaxX, q.MinY, q.MaxY)
	return l
}

// polygonLeaf ORs one INTERSECTS predicate per polygon on the range index,
// or prefilters by the bounding box of the set. ok is false for an empty set.
func polygonLeaf(q domquery.PolygonSet, geoShape bool) (leaf, bool, error) {
	bounds, ok := q.Bounds()
	if !ok {
		return leaf{}, false, nil
	}
	l := leaf{field: q.Field, match: q.Contains}
	if q.Source != domquery.RangeIndex || !geoShape {
		l.query = numericBox(q.Field, bounds.MinX, bounds.MaxX, bounds.MinY, bounds.MaxY)
		return l, true, nil
	}

	l.params = make(map[string]string, len(q.Polygons))
	var parts []string
	for _, p := range q.Polygons {
		if p == nil || p.Empty() {
			continue
		}
		s, err := wkt.Marshal(p)
		if err != nil {
			return leaf{}, false, fmt.Errorf("encode polygon: %w", err)
		}
		name := "p" + strconv.Itoa(len(parts))
		l.params[name] = s
		parts = append(parts, "("+intersects(q.Field, name)+")")
	}
	l.query = strings.Join(parts, " | ")
	return l, true, nil
}

func intersects(field, param string) string {
	return "@" + escape(field) + ":[INTERSECTS $" + param + "]"
}

func numericBox(field string, minX, maxX, minY, maxY float64) string {
	return "@" + escape(keyspace.XAttr(field)) + ":[" + fmtFloat(minX) + " " + fmtFloat(maxX) + "] " +
		"@" + escape(keyspace.YAttr(field)) + ":[" + fmtFloat(minY) + " " + fmtFloat(maxY) + "]"
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// escape backslash-escapes characters the query parser treats as syntax.
func escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		isWord := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !isWord && r < 128 {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
