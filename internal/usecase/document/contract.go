package document

import (
	"context"

	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
)

// Repository defines the storage contract for documents.
// Upsert replaces every artifact previously written for the document.
type Repository interface {
	Upsert(ctx context.Context, collectionName string, doc *domdoc.Document) (created bool, err error)
	Get(ctx context.Context, collectionName, id string) (domdoc.Document, error)
	Delete(ctx context.Context, collectionName, id string) error
}

// CollectionReader reads index mappings for schema validation.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}
