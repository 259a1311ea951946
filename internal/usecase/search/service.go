package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/xydex/internal/domain"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
	"github.com/kailas-cloud/xydex/internal/domain/search/request"
	"github.com/kailas-cloud/xydex/internal/domain/search/result"
	"github.com/kailas-cloud/xydex/internal/logger"
	"github.com/kailas-cloud/xydex/internal/metrics"
	"github.com/kailas-cloud/xydex/internal/usecase/query"
)

// Response is the outcome of a spatial search.
type Response struct {
	// Total counts every matching document, not only the returned hits.
	Total int
	Hits  []result.Result
}

// Service answers spatial searches over xy_point fields.
type Service struct {
	repo      Repository
	colls     CollectionReader
	docs      DocumentReader
	processor *query.Processor
	engine    string
}

// New creates a search service. engine labels the search duration metric.
func New(repo Repository, colls CollectionReader, docs DocumentReader, p *query.Processor, engine string) *Service {
	return &Service{repo: repo, colls: colls, docs: docs, processor: p, engine: engine}
}

// Search compiles the request against the index mapping, executes it and
// loads up to req.Limit() matching documents in ID order.
func (s *Service) Search(ctx context.Context, collectionName string, req *request.Request) (Response, error) {
	col, err := s.colls.Get(ctx, collectionName)
	if err != nil {
		return Response{}, fmt.Errorf("get collection: %w", err)
	}

	q, err := s.processor.BuildQuery(req.Shape(), req.Field(), req.Relation(), col)
	if err != nil {
		return Response{}, err //nolint:wrapcheck // query errors carry the field name
	}

	log := logger.FromContext(ctx)
	log.Debug("spatial query compiled",
		zap.String("index", collectionName),
		zap.String("field", req.Field()),
		zap.Stringer("query", q),
	)

	if _, ok := q.(domquery.MatchNone); ok {
		return Response{Hits: []result.Result{}}, nil
	}

	start := time.Now()
	ids, err := s.repo.Search(ctx, collectionName, q)
	metrics.ObserveSearch(s.engine, start)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}

	hits := make([]result.Result, 0, min(len(ids), req.Limit()))
	for _, id := range ids {
		if len(hits) == req.Limit() {
			break
		}
		doc, err := s.docs.Get(ctx, collectionName, id)
		if errors.Is(err, domain.ErrDocumentNotFound) {
			// deleted between search and fetch
			log.Debug("search hit vanished", zap.String("id", id))
			continue
		}
		if err != nil {
			return Response{}, fmt.Errorf("get document %s: %w", id, err)
		}
		hits = append(hits, result.New(doc.ID(), doc.Source(), doc.Stored()))
	}
	return Response{Total: len(ids), Hits: hits}, nil
}
