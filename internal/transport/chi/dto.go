package chi

import (
	"encoding/json"
	"fmt"

	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	"github.com/kailas-cloud/xydex/internal/domain/search/result"
)

// ErrorCode is a machine-readable error kind in API responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeParseFailed        ErrorCode = "parse_failed"
	CodeQueryFailed        ErrorCode = "query_failed"
	CodeIndexNotFound      ErrorCode = "index_not_found"
	CodeDocumentNotFound   ErrorCode = "document_not_found"
	CodeIndexAlreadyExists ErrorCode = "index_already_exists"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FieldMapping is a field in index create requests and mapping responses.
type FieldMapping struct {
	Name            string `json:"name"`
	Type            string `json:"type"`
	Index           *bool  `json:"index,omitempty"`
	DocValues       *bool  `json:"doc_values,omitempty"`
	Store           *bool  `json:"store,omitempty"`
	IgnoreMalformed *bool  `json:"ignore_malformed,omitempty"`
	IgnoreZValue    *bool  `json:"ignore_z_value,omitempty"`
	NullValue       any    `json:"null_value,omitempty"`
}

// CreateIndexRequest is the body of PUT /indexes/{index}.
type CreateIndexRequest struct {
	Fields []FieldMapping `json:"fields"`
}

// IndexResponse describes an index and its mapping.
type IndexResponse struct {
	Name   string         `json:"name"`
	Fields []FieldMapping `json:"fields"`
}

// IndexListResponse is the body of GET /indexes.
type IndexListResponse struct {
	Items []IndexResponse `json:"items"`
}

// DocumentResponse is a document with its stored point values.
type DocumentResponse struct {
	ID     string                     `json:"_id"`
	Source map[string]json.RawMessage `json:"_source"`
	Fields map[string][]string        `json:"fields,omitempty"`
}

// PutDocumentResponse is the body of document writes.
type PutDocumentResponse struct {
	ID     string `json:"_id"`
	Result string `json:"result"` // created, updated
}

// SearchRequest is the body of POST /indexes/{index}/_search. Shape is a
// GeoJSON object or a WKT string.
type SearchRequest struct {
	Field    string          `json:"field"`
	Shape    json.RawMessage `json:"shape"`
	Relation string          `json:"relation"`
	Limit    int             `json:"limit"`
}

// SearchResponse is the body of a search.
type SearchResponse struct {
	Total int                `json:"total"`
	Hits  []DocumentResponse `json:"hits"`
}

// BulkIndexItem is one document of a bulk index request.
type BulkIndexItem struct {
	ID     string                     `json:"_id"`
	Source map[string]json.RawMessage `json:"_source"`
}

// BulkIndexRequest is the body of POST /indexes/{index}/_bulk.
type BulkIndexRequest struct {
	Items []BulkIndexItem `json:"items"`
}

// BulkDeleteRequest is the body of POST /indexes/{index}/_bulk_delete.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkItemResult is the outcome of one bulk item.
type BulkItemResult struct {
	ID     string         `json:"_id"`
	Status string         `json:"status"` // created, updated, deleted, error
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BulkResponse is the body of bulk operations. Errors is true if any item failed.
type BulkResponse struct {
	Errors bool             `json:"errors"`
	Items  []BulkItemResult `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func fieldsFromMappings(mm []FieldMapping) ([]field.Field, error) {
	fields := make([]field.Field, len(mm))
	for i, m := range mm {
		opts := field.DefaultOptions()
		set := func(dst *bool, v *bool) {
			if v != nil {
				*dst = *v
			}
		}
		set(&opts.Index, m.Index)
		set(&opts.DocValues, m.DocValues)
		set(&opts.Store, m.Store)
		set(&opts.IgnoreMalformed, m.IgnoreMalformed)
		set(&opts.IgnoreZValue, m.IgnoreZValue)
		opts.NullValue = m.NullValue

		f, err := field.NewWithOptions(m.Name, field.Type(m.Type), opts)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", m.Name, err)
		}
		fields[i] = f
	}
	return fields, nil
}

func indexToResponse(c domcol.Collection) IndexResponse {
	fields := make([]FieldMapping, len(c.Fields()))
	for i, f := range c.Fields() {
		fields[i] = FieldMapping{Name: f.Name(), Type: f.TypeName()}
		if f.FieldType() != field.XYPoint {
			continue
		}
		o := f.Options()
		fields[i].Index = &o.Index
		fields[i].DocValues = &o.DocValues
		fields[i].Store = &o.Store
		fields[i].IgnoreMalformed = &o.IgnoreMalformed
		fields[i].IgnoreZValue = &o.IgnoreZValue
		fields[i].NullValue = o.NullValue
	}
	return IndexResponse{Name: c.Name(), Fields: fields}
}

func documentToResponse(doc *domdoc.Document) DocumentResponse {
	return DocumentResponse{ID: doc.ID(), Source: doc.Source(), Fields: nonEmpty(doc.Stored())}
}

func resultToResponse(r *result.Result) DocumentResponse {
	return DocumentResponse{ID: r.ID(), Source: r.Source(), Fields: nonEmpty(r.Stored())}
}

func nonEmpty(m map[string][]string) map[string][]string {
	if len(m) == 0 {
		return nil
	}
	return m
}
