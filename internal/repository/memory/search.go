package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/xydex/internal/domain"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
)

type docSet map[string]struct{}

// Search executes a compiled query and returns the matching document IDs
// in ascending order.
func (e *Engine) Search(ctx context.Context, collectionName string, q domquery.Query) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ix, ok := e.indexes[collectionName]
	if !ok {
		return nil, fmt.Errorf("index %s: %w", collectionName, domain.ErrNotFound)
	}

	set, err := ix.eval(ctx, q)
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

func (ix *index) eval(ctx context.Context, q domquery.Query) (docSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	switch q := q.(type) {
	case domquery.Box:
		if q.Source == domquery.Columnar {
			return ix.scanColumns(q.Field, q.Contains), nil
		}
		return ix.scanRange(q.Field, q, q.Contains), nil
	case domquery.PolygonSet:
		if q.Source == domquery.Columnar {
			return ix.scanColumns(q.Field, q.Contains), nil
		}
		bounds, ok := q.Bounds()
		if !ok {
			return docSet{}, nil
		}
		return ix.scanRange(q.Field, bounds, q.Contains), nil
	case domquery.IndexOrColumnar:
		return ix.eval(ctx, q.Primary)
	case domquery.BooleanFilter:
		return ix.intersect(ctx, q.Clauses)
	case domquery.MatchNone:
		return docSet{}, nil
	default:
		return nil, fmt.Errorf("unsupported query node %T", q)
	}
}

func (ix *index) scanRange(field string, box domquery.Box, match func(x, y float64) bool) docSet {
	out := docSet{}
	r, ok := ix.ranges[field]
	if !ok {
		return out
	}
	r.scan(box.MinX, box.MaxX, box.MinY, box.MaxY, func(e rangeEntry) {
		if match(e.x, e.y) {
			out[e.doc] = struct{}{}
		}
	})
	return out
}

func (ix *index) scanColumns(field string, match func(x, y float64) bool) docSet {
	out := docSet{}
	for doc, points := range ix.columns[field] {
		for _, p := range points {
			if match(p.x, p.y) {
				out[doc] = struct{}{}
				break
			}
		}
	}
	return out
}

func (ix *index) intersect(ctx context.Context, clauses []domquery.Query) (docSet, error) {
	if len(clauses) == 0 {
		return docSet{}, nil
	}
	acc, err := ix.eval(ctx, clauses[0])
	if err != nil {
		return nil, err
	}
	for _, c := range clauses[1:] {
		if len(acc) == 0 {
			return acc, nil
		}
		next, err := ix.eval(ctx, c)
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
