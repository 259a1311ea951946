package xydex

import (
	"context"
	"fmt"

	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	collectionuc "github.com/kailas-cloud/xydex/internal/usecase/collection"
)

// IndexService manages index mappings.
type IndexService struct {
	svc *collectionuc.Service
}

// IndexInfo describes an index mapping.
type IndexInfo struct {
	Name   string
	Fields []FieldInfo
}

// FieldInfo describes one mapped field.
type FieldInfo struct {
	Name    string
	Type    string
	Options field.Options
}

// Create creates an index. Fails with ErrAlreadyExists if the name is taken.
func (s *IndexService) Create(ctx context.Context, name string, fields ...FieldSpec) (IndexInfo, error) {
	ff, err := buildFields(fields)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}
	col, err := s.svc.Create(ctx, name, ff)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("create index: %w", err)
	}
	return toIndexInfo(col), nil
}

// Ensure creates the index if it does not exist (idempotent). An existing
// index keeps its mapping.
func (s *IndexService) Ensure(ctx context.Context, name string, fields ...FieldSpec) (IndexInfo, error) {
	ff, err := buildFields(fields)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("ensure index: %w", err)
	}
	col, err := s.svc.Ensure(ctx, name, ff)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("ensure index: %w", err)
	}
	return toIndexInfo(col), nil
}

// Get returns an index mapping.
func (s *IndexService) Get(ctx context.Context, name string) (IndexInfo, error) {
	col, err := s.svc.Get(ctx, name)
	if err != nil {
		return IndexInfo{}, fmt.Errorf("get index: %w", err)
	}
	return toIndexInfo(col), nil
}

// List returns every index ordered by name.
func (s *IndexService) List(ctx context.Context) ([]IndexInfo, error) {
	cols, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	out := make([]IndexInfo, len(cols))
	for i, c := range cols {
		out[i] = toIndexInfo(c)
	}
	return out, nil
}

// Delete drops an index with all its documents.
func (s *IndexService) Delete(ctx context.Context, name string) error {
	if err := s.svc.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete index: %w", err)
	}
	return nil
}

func buildFields(specs []FieldSpec) ([]field.Field, error) {
	out := make([]field.Field, len(specs))
	for i, s := range specs {
		f, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
		}
		out[i] = f
	}
	return out, nil
}

func toIndexInfo(c domcol.Collection) IndexInfo {
	fields := make([]FieldInfo, len(c.Fields()))
	for i, f := range c.Fields() {
		fields[i] = FieldInfo{Name: f.Name(), Type: f.TypeName(), Options: f.Options()}
	}
	return IndexInfo{Name: c.Name(), Fields: fields}
}
