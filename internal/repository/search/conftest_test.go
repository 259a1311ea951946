package search

import (
	"context"
	"testing"

	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/xydex/internal/db"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	geoShape bool
	queries  []db.SearchQuery
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	m.queries = append(m.queries, *q)
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SupportsGeoShape(_ context.Context) bool {
	return m.geoShape
}

func newTestRepo(t *testing.T, geoShape bool) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{geoShape: geoShape}
	return New(ms, keyspace.New("")), ms
}

// pointHit is a point hash as FT.SEARCH returns it.
func pointHit(doc, x, y string) db.SearchEntry {
	return db.SearchEntry{
		Key: "xydex:{places}:pt:" + doc + ":location:0",
		Fields: map[string]string{
			"__doc":       doc,
			"location__x": x,
			"location__y": y,
		},
	}
}

// results returns every hit in one page.
func results(hits ...db.SearchEntry) func(context.Context, *db.SearchQuery) (*db.SearchResult, error) {
	return func(context.Context, *db.SearchQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: len(hits), Entries: hits}, nil
	}
}

func square(minX, minY, size float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{minX, minY}, {minX, minY + size}, {minX + size, minY + size}, {minX + size, minY}, {minX, minY},
	}})
}
