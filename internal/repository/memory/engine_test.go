package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/xydex/internal/domain"
	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
)

func makeCollection(t *testing.T, name string) domcol.Collection {
	t.Helper()
	loc, err := field.New("location", field.XYPoint)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	col, err := domcol.New(name, []field.Field{loc})
	if err != nil {
		t.Fatalf("domcol.New: %v", err)
	}
	return col
}

func makeDoc(t *testing.T, id string, pts ...[2]float64) *domdoc.Document {
	t.Helper()
	arts := make([]domdoc.Artifact, 0, 2*len(pts))
	for _, p := range pts {
		arts = append(arts,
			domdoc.RangeEntry{Field: "location", X: p[0], Y: p[1]},
			domdoc.ColumnarEntry{Field: "location", X: p[0], Y: p[1]},
		)
	}
	doc, err := domdoc.New(id, map[string]json.RawMessage{"location": json.RawMessage(`"0,0"`)}, arts)
	if err != nil {
		t.Fatalf("domdoc.New: %v", err)
	}
	return &doc
}

func newEngineWithIndex(t *testing.T) *Engine {
	t.Helper()
	e := New()
	if err := e.Collections().Create(context.Background(), makeCollection(t, "shapes")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return e
}

var everything = domquery.Box{Field: "location", MinX: -1000, MaxX: 1000, MinY: -1000, MaxY: 1000}

func TestCollections_Lifecycle(t *testing.T) {
	ctx := context.Background()
	e := New()
	repo := e.Collections()

	if err := repo.Create(ctx, makeCollection(t, "b")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeCollection(t, "a")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeCollection(t, "a")); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	list, _ := repo.List(ctx)
	if len(list) != 2 || list[0].Name() != "a" || list[1].Name() != "b" {
		t.Errorf("List() = %v", list)
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocuments_UpsertReplaces(t *testing.T) {
	ctx := context.Background()
	e := newEngineWithIndex(t)
	docs := e.Documents()

	created, err := docs.Upsert(ctx, "shapes", makeDoc(t, "d1", [2]float64{1, 1}, [2]float64{2, 2}))
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}
	created, err = docs.Upsert(ctx, "shapes", makeDoc(t, "d1", [2]float64{50, 50}))
	if err != nil || created {
		t.Fatalf("second upsert: created=%v err=%v", created, err)
	}

	near := domquery.Box{Field: "location", MinX: 0, MaxX: 10, MinY: 0, MaxY: 10}
	ids, err := e.Search(ctx, "shapes", near)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("old points should be gone, got %v", ids)
	}
	ids, _ = e.Search(ctx, "shapes", everything)
	if len(ids) != 1 || ids[0] != "d1" {
		t.Errorf("expected [d1], got %v", ids)
	}
}

func TestDocuments_GetAndDelete(t *testing.T) {
	ctx := context.Background()
	e := newEngineWithIndex(t)
	docs := e.Documents()

	if _, err := docs.Upsert(ctx, "shapes", makeDoc(t, "d1", [2]float64{1, 1})); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := docs.Get(ctx, "shapes", "d1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID() != "d1" || len(got.Artifacts()) != 0 {
		t.Errorf("Get() = %+v", got)
	}

	if err := docs.Delete(ctx, "shapes", "d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := docs.Get(ctx, "shapes", "d1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := docs.Delete(ctx, "shapes", "d1"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
	ids, _ := e.Search(ctx, "shapes", everything)
	if len(ids) != 0 {
		t.Errorf("deleted document still searchable: %v", ids)
	}
}

func TestDocuments_UnknownIndex(t *testing.T) {
	ctx := context.Background()
	docs := New().Documents()

	if _, err := docs.Upsert(ctx, "nope", makeDoc(t, "d1")); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Upsert: expected ErrNotFound, got %v", err)
	}
	if _, err := docs.Get(ctx, "nope", "d1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
}

func TestRangeIndex_Scan(t *testing.T) {
	r := &rangeIndex{}
	for i, x := range []float64{5, -3, 0, 5, 12} {
		r.insert(rangeEntry{x: x, y: float64(i), doc: string(rune('a' + i))})
	}
	for i := 1; i < len(r.entries); i++ {
		if r.entries[i-1].x > r.entries[i].x {
			t.Fatalf("entries not sorted: %v", r.entries)
		}
	}

	var got []string
	r.scan(0, 5, 0, 3, func(e rangeEntry) { got = append(got, e.doc) })
	if len(got) != 3 {
		t.Errorf("scan returned %v, want c, a, d", got)
	}

	r.removeDoc("a")
	if len(r.entries) != 4 {
		t.Errorf("expected 4 entries after remove, got %d", len(r.entries))
	}
}
