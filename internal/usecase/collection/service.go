package collection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/xydex/internal/domain"
	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	"github.com/kailas-cloud/xydex/internal/logger"
)

// Service handles index (collection) lifecycle.
type Service struct {
	repo Repository
}

// New creates a collection service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new index mapping.
func (s *Service) Create(ctx context.Context, name string, fields []field.Field) (domcol.Collection, error) {
	col, err := domcol.New(name, fields)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("validate collection: %w: %w", domain.ErrInvalidSchema, err)
	}

	if err := s.repo.Create(ctx, col); err != nil {
		return domcol.Collection{}, fmt.Errorf("create collection: %w", err)
	}

	return col, nil
}

// Ensure creates the index unless one with the same name exists. An existing
// index keeps its stored mapping.
func (s *Service) Ensure(ctx context.Context, name string, fields []field.Field) (domcol.Collection, error) {
	col, err := s.Create(ctx, name, fields)
	if err == nil {
		logger.FromContext(ctx).Info("index created", zap.String("index", name), zap.Int("fields", len(fields)))
		return col, nil
	}
	if !errors.Is(err, domain.ErrAlreadyExists) {
		return domcol.Collection{}, err
	}
	return s.Get(ctx, name)
}

// Get retrieves an index mapping by name.
func (s *Service) Get(ctx context.Context, name string) (domcol.Collection, error) {
	col, err := s.repo.Get(ctx, name)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("get collection: %w", err)
	}
	return col, nil
}

// List returns all index mappings.
func (s *Service) List(ctx context.Context) ([]domcol.Collection, error) {
	cols, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return cols, nil
}

// Delete removes an index with all its documents.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	return nil
}

// Required reports whether a fixed set of indexes exists. It backs the
// indexes health check.
type Required struct {
	svc   *Service
	names []string
}

// Require returns a checker for the given index names.
func (s *Service) Require(names ...string) *Required {
	return &Required{svc: s, names: names}
}

// Check returns the first lookup failure among the required indexes.
func (r *Required) Check(ctx context.Context) error {
	for _, name := range r.names {
		if _, err := r.svc.Get(ctx, name); err != nil {
			return fmt.Errorf("index %s: %w", name, err)
		}
	}
	return nil
}
