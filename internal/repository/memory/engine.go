// Package memory is an in-process storage engine. It keeps a range index
// and a columnar store per xy_point field and executes compiled spatial
// queries against them.
package memory

import (
	"context"
	"sync"

	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
)

// Engine holds every index in memory. Safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*index
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{indexes: make(map[string]*index)}
}

// Ping always succeeds.
func (e *Engine) Ping(_ context.Context) error { return nil }

// Collections returns the index mapping repository.
func (e *Engine) Collections() *CollectionRepo { return &CollectionRepo{e: e} }

// Documents returns the document repository.
func (e *Engine) Documents() *DocumentRepo { return &DocumentRepo{e: e} }

type index struct {
	col  domcol.Collection
	docs map[string]domdoc.Document

	// per xy_point field
	ranges  map[string]*rangeIndex
	columns map[string]map[string][]point
}

type point struct{ x, y float64 }

func newIndex(col domcol.Collection) *index {
	return &index{
		col:     col,
		docs:    make(map[string]domdoc.Document),
		ranges:  make(map[string]*rangeIndex),
		columns: make(map[string]map[string][]point),
	}
}

// put replaces every structure previously written for the document.
func (ix *index) put(doc domdoc.Document) bool {
	_, existed := ix.docs[doc.ID()]
	if existed {
		ix.remove(doc.ID())
	}

	for _, a := range doc.Artifacts() {
		switch a := a.(type) {
		case domdoc.RangeEntry:
			r, ok := ix.ranges[a.Field]
			if !ok {
				r = &rangeIndex{}
				ix.ranges[a.Field] = r
			}
			r.insert(rangeEntry{x: a.X, y: a.Y, doc: doc.ID()})
		case domdoc.ColumnarEntry:
			col, ok := ix.columns[a.Field]
			if !ok {
				col = make(map[string][]point)
				ix.columns[a.Field] = col
			}
			col[doc.ID()] = append(col[doc.ID()], point{a.X, a.Y})
		}
	}
	ix.docs[doc.ID()] = domdoc.Reconstruct(doc.ID(), doc.Source(), doc.Stored())
	return !existed
}

func (ix *index) remove(id string) bool {
	if _, ok := ix.docs[id]; !ok {
		return false
	}
	for _, r := range ix.ranges {
		r.removeDoc(id)
	}
	for _, col := range ix.columns {
		delete(col, id)
	}
	delete(ix.docs, id)
	return true
}
