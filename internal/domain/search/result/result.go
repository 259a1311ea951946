package result

import "encoding/json"

// Result is a single search hit.
type Result struct {
	id     string
	source map[string]json.RawMessage
	stored map[string][]string
}

// New creates a search result.
func New(id string, source map[string]json.RawMessage, stored map[string][]string) Result {
	return Result{id: id, source: source, stored: stored}
}

// ID returns the document identifier.
func (r *Result) ID() string { return r.id }

// Source returns the document fields as submitted.
func (r *Result) Source() map[string]json.RawMessage { return r.source }

// Stored returns the stored point values per field.
func (r *Result) Stored() map[string][]string { return r.stored }
