package chi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xydex/internal/domain"
	dombatch "github.com/kailas-cloud/xydex/internal/domain/batch"
	"github.com/kailas-cloud/xydex/internal/domain/search/request"
	"github.com/kailas-cloud/xydex/internal/domain/shape"
	"github.com/kailas-cloud/xydex/internal/domain/xy"
	"github.com/kailas-cloud/xydex/internal/logger"
	batchuc "github.com/kailas-cloud/xydex/internal/usecase/batch"
	collectionuc "github.com/kailas-cloud/xydex/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/xydex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/xydex/internal/usecase/health"
	"github.com/kailas-cloud/xydex/internal/usecase/indexer"
	searchuc "github.com/kailas-cloud/xydex/internal/usecase/search"
)

// maxBodyBytes bounds request bodies; a document source is capped lower.
const maxBodyBytes = 1 << 20

// errorHandler classifies a domain error. Returns false if it does not match.
type errorHandler func(err error) (apiError, bool)

// Server is the HTTP API over indexes, documents and spatial search.
type Server struct {
	collections   *collectionuc.Service
	documents     *documentuc.Service
	batch         *batchuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	documents *documentuc.Service,
	batch *batchuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		collections: collections,
		documents:   documents,
		batch:       batch,
		search:      search,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeIndexAlreadyExists),
		detailHandler(xy.ErrParse, http.StatusBadRequest, CodeParseFailed),
		detailHandler(indexer.ErrInvalidArgument, http.StatusBadRequest, CodeParseFailed),
		queryErrorHandler,
		detailHandler(domain.ErrInvalidGeometry, http.StatusBadRequest, CodeQueryFailed),
		detailHandler(domain.ErrInvalidSchema, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/indexes", func(r chi.Router) {
		r.Get("/", s.ListIndexes)
		r.Route("/{index}", func(r chi.Router) {
			r.Use(indexLogger)
			r.Put("/", s.CreateIndex)
			r.Delete("/", s.DeleteIndex)
			r.Get("/mapping", s.GetMapping)
			r.Post("/_search", s.Search)
			r.Post("/_bulk", s.BulkIndex)
			r.Post("/_bulk_delete", s.BulkDelete)
			r.Post("/documents", s.CreateDocument)
			r.Put("/documents/{id}", s.PutDocument)
			r.Get("/documents/{id}", s.GetDocument)
			r.Delete("/documents/{id}", s.DeleteDocument)
		})
	})
}

// indexLogger scopes the request logger to the target index.
func indexLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.With(r.Context(), zap.String("index", chi.URLParam(r, "index")))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CreateIndex handles PUT /indexes/{index}.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	var req CreateIndexRequest
	if !s.decode(w, r, &req) {
		return
	}

	fields, err := fieldsFromMappings(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	col, err := s.collections.Create(r.Context(), chi.URLParam(r, "index"), fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, indexToResponse(col))
}

// ListIndexes handles GET /indexes.
func (s *Server) ListIndexes(w http.ResponseWriter, r *http.Request) {
	cols, err := s.collections.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]IndexResponse, len(cols))
	for i, c := range cols {
		items[i] = indexToResponse(c)
	}
	writeJSON(w, http.StatusOK, IndexListResponse{Items: items})
}

// GetMapping handles GET /indexes/{index}/mapping.
func (s *Server) GetMapping(w http.ResponseWriter, r *http.Request) {
	col, err := s.collections.Get(r.Context(), chi.URLParam(r, "index"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexToResponse(col))
}

// DeleteIndex handles DELETE /indexes/{index}.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.collections.Delete(r.Context(), chi.URLParam(r, "index")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutDocument handles PUT /indexes/{index}/documents/{id}.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if !s.decode(w, r, &fields) {
		return
	}

	index, id := chi.URLParam(r, "index"), chi.URLParam(r, "id")
	created, err := s.documents.Put(r.Context(), index, id, fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status, res := http.StatusOK, "updated"
	if created {
		status, res = http.StatusCreated, "created"
		w.Header().Set("Location", fmt.Sprintf("/indexes/%s/documents/%s", index, id))
	}
	writeJSON(w, status, PutDocumentResponse{ID: id, Result: res})
}

// CreateDocument handles POST /indexes/{index}/documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if !s.decode(w, r, &fields) {
		return
	}

	index := chi.URLParam(r, "index")
	id, err := s.documents.Create(r.Context(), index, fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/indexes/%s/documents/%s", index, id))
	writeJSON(w, http.StatusCreated, PutDocumentResponse{ID: id, Result: "created"})
}

// GetDocument handles GET /indexes/{index}/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// DeleteDocument handles DELETE /indexes/{index}/documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.documents.Delete(r.Context(), chi.URLParam(r, "index"), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkIndex handles POST /indexes/{index}/_bulk.
func (s *Server) BulkIndex(w http.ResponseWriter, r *http.Request) {
	var req BulkIndexRequest
	if !s.decode(w, r, &req) {
		return
	}

	items := make([]batchuc.Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = batchuc.Item{ID: it.ID, Fields: it.Source}
	}
	results := s.batch.Put(r.Context(), chi.URLParam(r, "index"), items)
	writeJSON(w, http.StatusOK, s.bulkResponse(results))
}

// BulkDelete handles POST /indexes/{index}/_bulk_delete.
func (s *Server) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if !s.decode(w, r, &req) {
		return
	}
	results := s.batch.Delete(r.Context(), chi.URLParam(r, "index"), req.IDs)
	writeJSON(w, http.StatusOK, s.bulkResponse(results))
}

func (s *Server) bulkResponse(results []dombatch.Result) BulkResponse {
	resp := BulkResponse{Items: make([]BulkItemResult, len(results))}
	for i, res := range results {
		item := BulkItemResult{ID: res.ID(), Status: string(res.Status())}
		if res.Failed() {
			e := s.classify(res.Err())
			item.Error = &ErrorResponse{Code: e.code, Message: e.message}
			resp.Errors = true
		}
		resp.Items[i] = item
	}
	return resp
}

// Search handles POST /indexes/{index}/_search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decode(w, r, &req) {
		return
	}

	sh, err := decodeShape(req.Shape)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	rel, err := shape.ParseRelation(req.Relation)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeQueryFailed, err.Error())
		return
	}
	searchReq, err := request.New(req.Field, sh, rel, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), chi.URLParam(r, "index"), &searchReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits := make([]DocumentResponse, len(resp.Hits))
	for i := range resp.Hits {
		hits[i] = resultToResponse(&resp.Hits[i])
	}
	writeJSON(w, http.StatusOK, SearchResponse{Total: resp.Total, Hits: hits})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeShape accepts a WKT string or a GeoJSON object.
func decodeShape(raw json.RawMessage) (shape.Shape, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, domain.InvalidGeometry("shape is required")
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, domain.InvalidGeometry("malformed shape string: %v", err)
		}
		return shape.FromWKT(text) //nolint:wrapcheck // decode errors are user-facing
	}
	return shape.FromGeoJSON(raw) //nolint:wrapcheck // decode errors are user-facing
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// apiError is a classified domain error.
type apiError struct {
	status  int
	code    ErrorCode
	message string
}

// sentinelHandler matches a single sentinel error and answers with the
// sentinel's own text, hiding wrapped internals.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(err error) (apiError, bool) {
		if !errors.Is(err, sentinel) {
			return apiError{}, false
		}
		return apiError{status, code, sentinel.Error()}, true
	}
}

// detailHandler matches a sentinel whose wrapping errors carry user-facing text.
func detailHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(err error) (apiError, bool) {
		if !errors.Is(err, sentinel) {
			return apiError{}, false
		}
		return apiError{status, code, err.Error()}, true
	}
}

func queryErrorHandler(err error) (apiError, bool) {
	var qe *domain.QueryError
	if !errors.As(err, &qe) {
		return apiError{}, false
	}
	return apiError{http.StatusBadRequest, CodeQueryFailed, qe.Msg}, true
}

func (s *Server) classify(err error) apiError {
	for _, h := range s.errorHandlers {
		if e, ok := h(err); ok {
			return e
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	return apiError{http.StatusInternalServerError, CodeInternalError, "internal error"}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	e := s.classify(err)
	writeError(w, e.status, e.code, e.message)
}
