package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/xydex/internal/domain"
	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
)

// CollectionRepo stores index mappings.
type CollectionRepo struct {
	e *Engine
}

// Create registers a new, empty index.
func (r *CollectionRepo) Create(_ context.Context, col domcol.Collection) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()

	if _, ok := r.e.indexes[col.Name()]; ok {
		return fmt.Errorf("index %s: %w", col.Name(), domain.ErrAlreadyExists)
	}
	r.e.indexes[col.Name()] = newIndex(col)
	return nil
}

// Get returns the mapping of an index.
func (r *CollectionRepo) Get(_ context.Context, name string) (domcol.Collection, error) {
	r.e.mu.RLock()
	defer r.e.mu.RUnlock()

	ix, ok := r.e.indexes[name]
	if !ok {
		return domcol.Collection{}, fmt.Errorf("index %s: %w", name, domain.ErrNotFound)
	}
	return ix.col, nil
}

// List returns every mapping ordered by name.
func (r *CollectionRepo) List(_ context.Context) ([]domcol.Collection, error) {
	r.e.mu.RLock()
	defer r.e.mu.RUnlock()

	out := make([]domcol.Collection, 0, len(r.e.indexes))
	for _, ix := range r.e.indexes {
		out = append(out, ix.col)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// Delete drops an index with its documents.
func (r *CollectionRepo) Delete(_ context.Context, name string) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()

	if _, ok := r.e.indexes[name]; !ok {
		return fmt.Errorf("index %s: %w", name, domain.ErrNotFound)
	}
	delete(r.e.indexes, name)
	return nil
}
