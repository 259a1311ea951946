package batch

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/xydex/internal/domain"
	dombatch "github.com/kailas-cloud/xydex/internal/domain/batch"
	"github.com/kailas-cloud/xydex/internal/logger"
)

// MaxBatchSize is the maximum number of items per batch request.
const MaxBatchSize = 100

// Item is one document of a bulk index request.
type Item struct {
	ID     string
	Fields map[string]json.RawMessage
}

// Service handles batch document operations with per-item error reporting.
// Items are independent: a rejected item does not stop the others.
type Service struct {
	docs         DocumentWriter
	colls        CollectionReader
	maxBatchSize int
}

// New creates a batch service.
func New(docs DocumentWriter, colls CollectionReader) *Service {
	return &Service{docs: docs, colls: colls, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// Put indexes documents in order. A later item with the same ID replaces
// an earlier one.
func (s *Service) Put(ctx context.Context, collectionName string, items []Item) []dombatch.Result {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if results, failed := s.precheck(ctx, collectionName, ids); failed {
		return results
	}

	results := make([]dombatch.Result, len(items))
	rejected := 0
	for i, item := range items {
		created, err := s.docs.Put(ctx, collectionName, item.ID, item.Fields)
		if err != nil {
			results[i] = dombatch.NewError(item.ID, err)
			rejected++
			continue
		}
		results[i] = dombatch.NewIndexed(item.ID, created)
	}

	logger.FromContext(ctx).Debug("bulk index done",
		zap.String("index", collectionName),
		zap.Int("items", len(items)),
		zap.Int("rejected", rejected),
	)
	return results
}

// Delete removes documents by ID in batch.
func (s *Service) Delete(ctx context.Context, collectionName string, ids []string) []dombatch.Result {
	if results, failed := s.precheck(ctx, collectionName, ids); failed {
		return results
	}

	results := make([]dombatch.Result, len(ids))
	for i, id := range ids {
		if err := s.docs.Delete(ctx, collectionName, id); err != nil {
			results[i] = dombatch.NewError(id, fmt.Errorf("delete: %w", err))
			continue
		}
		results[i] = dombatch.NewDeleted(id)
	}
	return results
}

// precheck fails every item at once when the batch is too large or the
// index is unknown.
func (s *Service) precheck(ctx context.Context, collectionName string, ids []string) ([]dombatch.Result, bool) {
	var cause error
	if len(ids) > s.maxBatchSize {
		cause = fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrInvalidSchema)
	} else if _, err := s.colls.Get(ctx, collectionName); err != nil {
		cause = fmt.Errorf("get collection: %w", err)
	}
	if cause == nil {
		return nil, false
	}

	results := make([]dombatch.Result, len(ids))
	for i, id := range ids {
		results[i] = dombatch.NewError(id, cause)
	}
	return results, true
}
