package memory

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/xydex/internal/domain"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
)

// DocumentRepo stores documents and their index artifacts.
type DocumentRepo struct {
	e *Engine
}

// Upsert writes the document, replacing any previous version.
func (r *DocumentRepo) Upsert(_ context.Context, collectionName string, doc *domdoc.Document) (bool, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()

	ix, ok := r.e.indexes[collectionName]
	if !ok {
		return false, fmt.Errorf("index %s: %w", collectionName, domain.ErrNotFound)
	}
	return ix.put(*doc), nil
}

// Get returns the document source and stored values.
func (r *DocumentRepo) Get(_ context.Context, collectionName, id string) (domdoc.Document, error) {
	r.e.mu.RLock()
	defer r.e.mu.RUnlock()

	ix, ok := r.e.indexes[collectionName]
	if !ok {
		return domdoc.Document{}, fmt.Errorf("index %s: %w", collectionName, domain.ErrNotFound)
	}
	doc, ok := ix.docs[id]
	if !ok {
		return domdoc.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return doc, nil
}

// Delete removes the document and all its index artifacts.
func (r *DocumentRepo) Delete(_ context.Context, collectionName, id string) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()

	ix, ok := r.e.indexes[collectionName]
	if !ok {
		return fmt.Errorf("index %s: %w", collectionName, domain.ErrNotFound)
	}
	if !ix.remove(id) {
		return fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return nil
}
