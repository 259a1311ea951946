package xydex

import (
	"context"
	"encoding/json"
	"fmt"

	documentuc "github.com/kailas-cloud/xydex/internal/usecase/document"
)

// DocumentService manages documents within a single index.
type DocumentService struct {
	index string
	svc   *documentuc.Service
}

// Document is a stored document. Stored holds the canonical "Point(x,y)"
// values of fields mapped with Stored().
type Document struct {
	ID     string
	Source map[string]json.RawMessage
	Stored map[string][]string
}

// Put indexes a document under id, replacing any previous version.
// Values are JSON-encoded before parsing, so a point may be given as a
// string, a [y, x] slice or a map with "x" and "y".
// Returns true if created.
func (s *DocumentService) Put(ctx context.Context, id string, fields map[string]any) (bool, error) {
	raw, err := encodeFields(fields)
	if err != nil {
		return false, fmt.Errorf("put document: %w", err)
	}
	created, err := s.svc.Put(ctx, s.index, id, raw)
	if err != nil {
		return false, fmt.Errorf("put document: %w", err)
	}
	return created, nil
}

// Create indexes a document under a generated ID and returns the ID.
func (s *DocumentService) Create(ctx context.Context, fields map[string]any) (string, error) {
	raw, err := encodeFields(fields)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	id, err := s.svc.Create(ctx, s.index, raw)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (Document, error) {
	d, err := s.svc.Get(ctx, s.index, id)
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return Document{ID: d.ID(), Source: d.Source(), Stored: d.Stored()}, nil
}

// Delete removes a document by ID.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, s.index, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func encodeFields(fields map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(fields))
	for name, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}
