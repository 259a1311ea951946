package xydex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/xydex/internal/domain/search/request"
	"github.com/kailas-cloud/xydex/internal/domain/shape"
	searchuc "github.com/kailas-cloud/xydex/internal/usecase/search"
)

// SearchService runs spatial queries against a single index.
type SearchService struct {
	index string
	svc   *searchuc.Service
}

// Intersects returns up to limit documents, in ID order, with a point of
// field inside the WKT shape. Boundaries match. A limit of 0 uses the default.
func (s *SearchService) Intersects(ctx context.Context, field, wkt string, limit int) ([]Document, error) {
	sh, err := shape.FromWKT(wkt)
	if err != nil {
		return nil, fmt.Errorf("intersects: %w", err)
	}
	return s.run(ctx, field, sh, limit)
}

// IntersectsGeoJSON is Intersects with a GeoJSON shape. The "envelope"
// extension is accepted for rectangles.
func (s *SearchService) IntersectsGeoJSON(ctx context.Context, field string, geojson []byte, limit int) ([]Document, error) {
	sh, err := shape.FromGeoJSON(geojson)
	if err != nil {
		return nil, fmt.Errorf("intersects: %w", err)
	}
	return s.run(ctx, field, sh, limit)
}

func (s *SearchService) run(ctx context.Context, field string, sh shape.Shape, limit int) ([]Document, error) {
	req, err := request.New(field, sh, shape.Intersects, limit)
	if err != nil {
		return nil, fmt.Errorf("intersects: %w", err)
	}
	resp, err := s.svc.Search(ctx, s.index, &req)
	if err != nil {
		return nil, fmt.Errorf("intersects: %w", err)
	}
	out := make([]Document, len(resp.Hits))
	for i := range resp.Hits {
		h := &resp.Hits[i]
		out[i] = Document{ID: h.ID(), Source: h.Source(), Stored: h.Stored()}
	}
	return out, nil
}
