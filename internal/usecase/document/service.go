package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xydex/internal/domain"
	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	"github.com/kailas-cloud/xydex/internal/logger"
	"github.com/kailas-cloud/xydex/internal/metrics"
	"github.com/kailas-cloud/xydex/internal/usecase/indexer"
)

// Service indexes, reads and deletes documents.
type Service struct {
	repo  Repository
	colls CollectionReader
	newID func() string
}

// New creates a document service.
func New(repo Repository, colls CollectionReader) *Service {
	return &Service{repo: repo, colls: colls, newID: uuid.NewString}
}

// Create indexes a document under a generated ID and returns the ID.
func (s *Service) Create(ctx context.Context, collectionName string, fields map[string]json.RawMessage) (string, error) {
	id := s.newID()
	if _, err := s.Put(ctx, collectionName, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// Put indexes a document, replacing any previous version with the same ID.
// Returns true if the document was created, false if replaced.
func (s *Service) Put(
	ctx context.Context, collectionName, id string, fields map[string]json.RawMessage,
) (bool, error) {
	col, err := s.colls.Get(ctx, collectionName)
	if err != nil {
		return false, fmt.Errorf("get collection: %w", err)
	}
	if err := domdoc.ValidateID(id); err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	artifacts, err := s.project(ctx, col, fields)
	if err != nil {
		return false, err
	}

	doc, err := domdoc.New(id, fields, artifacts)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	created, err := s.repo.Upsert(ctx, collectionName, &doc)
	if err != nil {
		return false, fmt.Errorf("upsert document: %w", err)
	}

	logger.FromContext(ctx).Debug("document indexed",
		zap.String("index", collectionName),
		zap.String("id", id),
		zap.Int("artifacts", len(artifacts)),
		zap.Bool("created", created),
	)
	return created, nil
}

// project validates every field against the mapping and derives the index
// artifacts of the xy_point fields, in field name order.
func (s *Service) project(
	ctx context.Context, col domcol.Collection, fields map[string]json.RawMessage,
) ([]domdoc.Artifact, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var artifacts []domdoc.Artifact
	for _, name := range names {
		f, ok := col.FieldByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown field %q (not in index mapping): %w", name, domain.ErrInvalidSchema)
		}

		switch f.FieldType() {
		case field.XYPoint:
			arts, err := s.projectPoints(ctx, f, fields[name])
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, arts...)
		case field.Tag:
			if err := validateTag(fields[name]); err != nil {
				return nil, fmt.Errorf("field %q: %w: %w", name, err, domain.ErrInvalidSchema)
			}
		case field.Numeric:
			if err := validateNumeric(fields[name]); err != nil {
				return nil, fmt.Errorf("field %q: %w: %w", name, err, domain.ErrInvalidSchema)
			}
		}
	}
	return artifacts, nil
}

func (s *Service) projectPoints(ctx context.Context, f field.Field, raw json.RawMessage) ([]domdoc.Artifact, error) {
	res, err := indexer.NewFieldParser(f).Parse(raw)
	if err != nil {
		metrics.PointsParsedTotal.WithLabelValues(metrics.ParseError).Inc()
		return nil, err //nolint:wrapcheck // parser errors already name the field
	}
	if res.Ignored {
		metrics.PointsParsedTotal.WithLabelValues(metrics.ParseIgnored).Inc()
		logger.FromContext(ctx).Warn("ignoring malformed xy_point value",
			zap.String("field", f.Name()), zap.Error(res.Cause))
		return nil, nil
	}
	if len(res.Points) == 0 {
		return nil, nil
	}
	metrics.PointsParsedTotal.WithLabelValues(metrics.ParseOK).Add(float64(len(res.Points)))

	arts, err := indexer.NewProjector(f.Name(), f.Options().Store).Project(res.Points)
	if err != nil {
		return nil, fmt.Errorf("project field %q: %w", f.Name(), err)
	}
	return keepIndexed(arts, f.Options()), nil
}

// keepIndexed drops the artifacts of index structures the mapping disables.
func keepIndexed(arts []domdoc.Artifact, opts field.Options) []domdoc.Artifact {
	if opts.Index && opts.DocValues {
		return arts
	}
	out := arts[:0]
	for _, a := range arts {
		switch a.(type) {
		case domdoc.RangeEntry:
			if !opts.Index {
				continue
			}
		case domdoc.ColumnarEntry:
			if !opts.DocValues {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

// Get retrieves a document by index and ID.
func (s *Service) Get(ctx context.Context, collectionName, id string) (domdoc.Document, error) {
	if _, err := s.colls.Get(ctx, collectionName); err != nil {
		return domdoc.Document{}, fmt.Errorf("get collection: %w", err)
	}

	doc, err := s.repo.Get(ctx, collectionName, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Delete removes a document.
func (s *Service) Delete(ctx context.Context, collectionName, id string) error {
	if _, err := s.colls.Get(ctx, collectionName); err != nil {
		return fmt.Errorf("get collection: %w", err)
	}

	if err := s.repo.Delete(ctx, collectionName, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

var errWrongValueType = errors.New("wrong value type")

func validateTag(raw json.RawMessage) error {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return nil
	}
	return fmt.Errorf("%w: expected a string or an array of strings", errWrongValueType)
}

func validateNumeric(raw json.RawMessage) error {
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("%w: expected a number", errWrongValueType)
	}
	return nil
}
