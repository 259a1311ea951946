package search

import (
	"context"

	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
)

// Repository executes compiled spatial queries.
// Search returns the IDs of every matching document, deduplicated and
// sorted ascending.
type Repository interface {
	Search(ctx context.Context, collectionName string, q domquery.Query) ([]string, error)
}

// CollectionReader reads index mappings for query validation.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}

// DocumentReader loads the matched documents.
type DocumentReader interface {
	Get(ctx context.Context, collectionName, id string) (domdoc.Document, error)
}
