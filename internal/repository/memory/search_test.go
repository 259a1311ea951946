package memory

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/twpayne/go-geom"

	"github.com/kailas-cloud/xydex/internal/domain"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
	"github.com/kailas-cloud/xydex/internal/domain/search/request"
	"github.com/kailas-cloud/xydex/internal/domain/shape"
	"github.com/kailas-cloud/xydex/internal/usecase/document"
	"github.com/kailas-cloud/xydex/internal/usecase/query"
	"github.com/kailas-cloud/xydex/internal/usecase/search"
)

// stack wires the real services over one engine.
type stack struct {
	engine *Engine
	docs   *document.Service
	search *search.Service
}

func newStack(t *testing.T) stack {
	t.Helper()
	e := newEngineWithIndex(t)
	colls := e.Collections()
	p := query.NewProcessor(query.NewCompiler(domquery.DefaultBuilders()))
	return stack{
		engine: e,
		docs:   document.New(e.Documents(), colls),
		search: search.New(e, colls, e.Documents(), p, "memory"),
	}
}

func (s stack) index(t *testing.T, id, value string) {
	t.Helper()
	_, err := s.docs.Put(context.Background(), "shapes", id,
		map[string]json.RawMessage{"location": json.RawMessage(value)})
	if err != nil {
		t.Fatalf("index %s: %v", id, err)
	}
}

func (s stack) query(t *testing.T, sh shape.Shape, rel shape.Relation) ([]string, error) {
	t.Helper()
	req, err := request.New("location", sh, rel, request.MaxLimit)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	resp, err := s.search.Search(context.Background(), "shapes", &req)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(resp.Hits))
	for i, h := range resp.Hits {
		ids[i] = h.ID()
	}
	return ids, nil
}

func centeredSquare(t *testing.T, cx, cy, size float64) shape.Polygon {
	t.Helper()
	h := size / 2
	p, err := shape.NewPolygon([]geom.Coord{
		{cx - h, cy - h}, {cx - h, cy + h}, {cx + h, cy + h}, {cx + h, cy - h}, {cx - h, cy - h},
	})
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	return p
}

func TestScenario_RectangleIntersects(t *testing.T) {
	s := newStack(t)
	s.index(t, "inside", `"-30,-30"`)
	s.index(t, "outside", `"-45,-50"`)

	ids, err := s.query(t, shape.Rectangle{MinX: -45, MaxX: 45, MinY: -45, MaxY: 45}, shape.Intersects)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"inside"}) {
		t.Errorf("got %v, want [inside]", ids)
	}
}

func TestScenario_ContainsRejected(t *testing.T) {
	s := newStack(t)
	s.index(t, "inside", `"-30,-30"`)
	s.index(t, "outside", `"-45,-50"`)

	_, err := s.query(t, shape.Rectangle{MinX: -45, MaxX: 45, MinY: -45, MaxY: 45}, shape.Contains)
	if !errors.Is(err, domain.ErrUnsupportedRelation) {
		t.Fatalf("expected ErrUnsupportedRelation, got %v", err)
	}
	if got := err.Error(); got != "CONTAINS query relation not supported for Field [location]." {
		t.Errorf("message = %q", got)
	}
}

func TestScenario_MultiPolygon(t *testing.T) {
	s := newStack(t)
	s.index(t, "p30", `"-30,-30"`)
	s.index(t, "p40", `"-40,-40"`)
	s.index(t, "p50", `"-50,-50"`)

	mp := shape.MultiPolygon{Polygons: []shape.Polygon{
		centeredSquare(t, -30, -30, 10),
		centeredSquare(t, -50, -50, 10),
	}}
	ids, err := s.query(t, mp, shape.Intersects)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"p30", "p50"}) {
		t.Errorf("got %v, want [p30 p50]", ids)
	}
}

func TestSearch_MultiValuedDocumentMatchesOnce(t *testing.T) {
	s := newStack(t)
	s.index(t, "multi", `["1,1", "2,2", "80,80"]`)

	ids, err := s.query(t, shape.Rectangle{MinX: 0, MaxX: 5, MinY: 0, MaxY: 5}, shape.Intersects)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"multi"}) {
		t.Errorf("got %v, want [multi]", ids)
	}
}

func TestSearch_GeometryCollectionIsConjunction(t *testing.T) {
	s := newStack(t)
	s.index(t, "both", `["1,1", "10,10"]`)
	s.index(t, "one", `"1,1"`)

	gc := shape.GeometryCollection{Shapes: []shape.Shape{
		shape.Rectangle{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2},
		shape.Rectangle{MinX: 9, MaxX: 11, MinY: 9, MaxY: 11},
	}}
	ids, err := s.query(t, gc, shape.Intersects)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"both"}) {
		t.Errorf("got %v, want [both]", ids)
	}
}

func TestSearch_PolygonHole(t *testing.T) {
	s := newStack(t)
	s.index(t, "ring", `"1,1"`)
	s.index(t, "hole", `"5,5"`)

	p, err := shape.NewPolygon(
		[]geom.Coord{{0, 0}, {0, 10}, {10, 10}, {10, 0}, {0, 0}},
		[]geom.Coord{{4, 4}, {4, 6}, {6, 6}, {6, 4}, {4, 4}},
	)
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	ids, err := s.query(t, p, shape.Intersects)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"ring"}) {
		t.Errorf("got %v, want [ring]", ids)
	}
}

func TestSearch_RangeAndColumnarAgree(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	for i := -10; i <= 10; i++ {
		v := strconv.Itoa(i*7%23) + "," + strconv.Itoa(i*5%17)
		s.index(t, "d"+strconv.Itoa(i+10), `"`+v+`"`)
	}

	polys := []*geom.Polygon{centeredSquare(t, 0, 0, 12).Native(), centeredSquare(t, 15, 10, 6).Native()}
	pairs := [][2]domquery.Query{
		{
			domquery.Box{Field: "location", Source: domquery.RangeIndex, MinX: -5, MaxX: 8, MinY: -3, MaxY: 9},
			domquery.Box{Field: "location", Source: domquery.Columnar, MinX: -5, MaxX: 8, MinY: -3, MaxY: 9},
		},
		{
			domquery.PolygonSet{Field: "location", Source: domquery.RangeIndex, Polygons: polys},
			domquery.PolygonSet{Field: "location", Source: domquery.Columnar, Polygons: polys},
		},
	}
	for _, pair := range pairs {
		fromRange, err := s.engine.Search(ctx, "shapes", pair[0])
		if err != nil {
			t.Fatalf("range: %v", err)
		}
		fromColumns, err := s.engine.Search(ctx, "shapes", pair[1])
		if err != nil {
			t.Fatalf("columnar: %v", err)
		}
		if len(fromRange) == 0 {
			t.Fatalf("%s matched nothing", pair[0])
		}
		if !reflect.DeepEqual(fromRange, fromColumns) {
			t.Errorf("%s: range %v != columnar %v", pair[0], fromRange, fromColumns)
		}
	}
}

func TestSearch_UnknownIndex(t *testing.T) {
	_, err := New().Search(context.Background(), "nope", domquery.MatchNone{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearch_CanceledContext(t *testing.T) {
	e := newEngineWithIndex(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Search(ctx, "shapes", everything); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
