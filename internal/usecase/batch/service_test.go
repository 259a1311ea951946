package batch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/xydex/internal/domain"
	dombatch "github.com/kailas-cloud/xydex/internal/domain/batch"
	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
)

// --- Mocks ---

type mockDocWriter struct {
	putFn    func(id string) (bool, error)
	deleteFn func(id string) error
	puts     []string
}

func (m *mockDocWriter) Put(_ context.Context, _, id string, _ map[string]json.RawMessage) (bool, error) {
	m.puts = append(m.puts, id)
	if m.putFn != nil {
		return m.putFn(id)
	}
	return true, nil
}

func (m *mockDocWriter) Delete(_ context.Context, _, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

type mockCollReader struct {
	err error
}

func (m *mockCollReader) Get(_ context.Context, name string) (domcol.Collection, error) {
	if m.err != nil {
		return domcol.Collection{}, m.err
	}
	f, _ := field.New("location", field.XYPoint)
	return domcol.New(name, []field.Field{f})
}

func items(ids ...string) []Item {
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = Item{ID: id, Fields: map[string]json.RawMessage{"location": json.RawMessage(`"1,2"`)}}
	}
	return out
}

// --- Tests ---

func TestPut_PerItemResults(t *testing.T) {
	bad := errors.New("rejected")
	docs := &mockDocWriter{putFn: func(id string) (bool, error) {
		switch id {
		case "b":
			return false, bad
		case "c":
			return false, nil
		}
		return true, nil
	}}
	svc := New(docs, &mockCollReader{})

	results := svc.Put(context.Background(), "shapes", items("a", "b", "c"))

	want := []dombatch.ItemStatus{dombatch.StatusCreated, dombatch.StatusError, dombatch.StatusUpdated}
	for i, r := range results {
		if r.Status() != want[i] {
			t.Errorf("item %d: status %s, want %s", i, r.Status(), want[i])
		}
	}
	if !errors.Is(results[1].Err(), bad) {
		t.Errorf("item b err = %v", results[1].Err())
	}
	if len(docs.puts) != 3 {
		t.Errorf("puts = %v, want all three", docs.puts)
	}
}

func TestPut_TooLarge(t *testing.T) {
	docs := &mockDocWriter{}
	svc := New(docs, &mockCollReader{}).WithMaxBatchSize(2)

	results := svc.Put(context.Background(), "shapes", items("a", "b", "c"))
	for _, r := range results {
		if !errors.Is(r.Err(), domain.ErrInvalidSchema) {
			t.Errorf("%s: expected ErrInvalidSchema, got %v", r.ID(), r.Err())
		}
	}
	if len(docs.puts) != 0 {
		t.Errorf("oversized batch reached storage: %v", docs.puts)
	}
}

func TestPut_UnknownIndex(t *testing.T) {
	docs := &mockDocWriter{}
	svc := New(docs, &mockCollReader{err: domain.ErrNotFound})

	results := svc.Put(context.Background(), "nope", items("a"))
	if !errors.Is(results[0].Err(), domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", results[0].Err())
	}
	if len(docs.puts) != 0 {
		t.Error("unexpected put")
	}
}

func TestDelete_PartialFailure(t *testing.T) {
	docs := &mockDocWriter{deleteFn: func(id string) error {
		if id == "missing" {
			return domain.ErrDocumentNotFound
		}
		return nil
	}}
	svc := New(docs, &mockCollReader{})

	results := svc.Delete(context.Background(), "shapes", []string{"a", "missing"})
	if results[0].Status() != dombatch.StatusDeleted {
		t.Errorf("a: status %s", results[0].Status())
	}
	if !errors.Is(results[1].Err(), domain.ErrDocumentNotFound) {
		t.Errorf("missing: err %v", results[1].Err())
	}
}

func TestWithMaxBatchSize_IgnoresNonPositive(t *testing.T) {
	svc := New(&mockDocWriter{}, &mockCollReader{}).WithMaxBatchSize(0)
	if svc.maxBatchSize != MaxBatchSize {
		t.Errorf("maxBatchSize = %d, want %d", svc.maxBatchSize, MaxBatchSize)
	}
}
