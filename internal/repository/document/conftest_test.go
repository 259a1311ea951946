package document

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/xydex/internal/db"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn   func(ctx context.Context, key string) (map[string]string, error)
	delFn       func(ctx context.Context, keys ...string) error
	existsFn    func(ctx context.Context, key string) (bool, error)
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return true, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, keyspace.New("")), ms
}

// testDocument projects location [3,4] and [5,6] with storage on.
func testDocument(t *testing.T) domdoc.Document {
	t.Helper()
	src := map[string]json.RawMessage{
		"location": json.RawMessage(`["3,4","5,6"]`),
		"language": json.RawMessage(`"go"`),
	}
	doc, err := domdoc.New("doc-1", src, []domdoc.Artifact{
		domdoc.RangeEntry{Field: "location", X: 3, Y: 4},
		domdoc.ColumnarEntry{Field: "location", X: 3, Y: 4},
		domdoc.StoredEntry{Field: "location", Value: "Point(3,4)"},
		domdoc.RangeEntry{Field: "location", X: 5, Y: 6},
		domdoc.ColumnarEntry{Field: "location", X: 5, Y: 6},
		domdoc.StoredEntry{Field: "location", Value: "Point(5,6)"},
	})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	return doc
}
