package document

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/xydex/internal/db"
	"github.com/kailas-cloud/xydex/internal/domain"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo implements usecase/document.Repository.
//
// A document is one hash holding its source and stored values, plus one
// hash per indexed point that the FT index picks up by prefix.
type Repo struct {
	store store
	keys  keyspace.Keyspace
}

// New creates a document repository.
func New(s store, ks keyspace.Keyspace) *Repo {
	return &Repo{store: s, keys: ks}
}

// Upsert writes a document and its point hashes, then removes point hashes
// left over from the previous version. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, collectionName string, doc *domdoc.Document) (bool, error) {
	key := r.keys.Document(collectionName, doc.ID())

	old, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return false, fmt.Errorf("hgetall %s: %w", key, err)
	}
	oldPoints, err := pointKeys(old)
	if err != nil {
		return false, fmt.Errorf("previous version of %s: %w", doc.ID(), err)
	}

	items, newPoints := pointHashes(r.keys, collectionName, doc)
	docHash, err := docToHash(doc, newPoints)
	if err != nil {
		return false, err
	}
	items = append(items, db.HashSetItem{Key: key, Fields: docHash})

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	var stale []string
	for _, k := range oldPoints {
		if !slices.Contains(newPoints, k) {
			stale = append(stale, k)
		}
	}
	if err := r.store.Del(ctx, stale...); err != nil {
		return false, fmt.Errorf("del stale points of %s: %w", doc.ID(), err)
	}

	return len(old) == 0, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, collectionName, id string) (domdoc.Document, error) {
	key := r.keys.Document(collectionName, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domdoc.Document{}, r.missing(ctx, collectionName)
	}
	return docFromHash(id, m)
}

// Delete removes a document and its point hashes.
func (r *Repo) Delete(ctx context.Context, collectionName, id string) error {
	key := r.keys.Document(collectionName, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return r.missing(ctx, collectionName)
	}
	points, err := pointKeys(m)
	if err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}

	if err := r.store.Del(ctx, append(points, key)...); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// missing tells a missing document apart from a missing index.
func (r *Repo) missing(ctx context.Context, collectionName string) error {
	exists, err := r.store.Exists(ctx, r.keys.Collection(collectionName))
	if err != nil {
		return fmt.Errorf("check exists %s: %w", collectionName, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrDocumentNotFound
}
