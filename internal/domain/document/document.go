package document

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxSourceSize is the maximum size of a document source in bytes.
const MaxSourceSize = 163840 // 160KB

// Document is the document aggregate (immutable value object): the source
// fields as submitted plus the index artifacts projected from them.
type Document struct {
	id        string
	source    map[string]json.RawMessage
	artifacts []Artifact
	stored    map[string][]string
}

// ValidateID checks a document identifier.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Document.
func New(id string, source map[string]json.RawMessage, artifacts []Artifact) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	size := 0
	for k, v := range source {
		size += len(k) + len(v)
	}
	if size > MaxSourceSize {
		return Document{}, fmt.Errorf("document too large (max %d bytes)", MaxSourceSize)
	}

	stored := make(map[string][]string)
	for _, a := range artifacts {
		if s, ok := a.(StoredEntry); ok {
			stored[s.Field] = append(stored[s.Field], s.Value)
		}
	}

	return Document{
		id:        id,
		source:    cloneSource(source),
		artifacts: append([]Artifact(nil), artifacts...),
		stored:    stored,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
// Hydrated documents carry no artifacts.
func Reconstruct(id string, source map[string]json.RawMessage, stored map[string][]string) Document {
	if stored == nil {
		stored = map[string][]string{}
	}
	return Document{id: id, source: source, stored: stored}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Source returns the submitted fields.
func (d *Document) Source() map[string]json.RawMessage { return d.source }

// Artifacts returns the projected index artifacts in projection order.
func (d *Document) Artifacts() []Artifact { return d.artifacts }

// Stored returns the stored point values per field.
func (d *Document) Stored() map[string][]string { return d.stored }

func cloneSource(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	c := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		c[k] = append(json.RawMessage(nil), v...)
	}
	return c
}
