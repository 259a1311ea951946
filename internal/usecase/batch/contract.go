package batch

import (
	"context"
	"encoding/json"

	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
)

// DocumentWriter indexes and deletes single documents.
type DocumentWriter interface {
	Put(ctx context.Context, collectionName, id string, fields map[string]json.RawMessage) (created bool, err error)
	Delete(ctx context.Context, collectionName, id string) error
}

// CollectionReader reads collections for existence checks.
type CollectionReader interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}
