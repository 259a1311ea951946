package xydex

import (
	"github.com/kailas-cloud/xydex/internal/domain"
	"github.com/kailas-cloud/xydex/internal/domain/xy"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrAlreadyExists       = domain.ErrAlreadyExists
	ErrInvalidSchema       = domain.ErrInvalidSchema
	ErrDocumentNotFound    = domain.ErrDocumentNotFound
	ErrParse               = xy.ErrParse
	ErrFieldNotFound       = domain.ErrFieldNotFound
	ErrFieldNotIndexed     = domain.ErrFieldNotIndexed
	ErrFieldTypeMismatch   = domain.ErrFieldTypeMismatch
	ErrUnsupportedRelation = domain.ErrUnsupportedRelation
	ErrUnsupportedShape    = domain.ErrUnsupportedShape
	ErrInvalidGeometry     = domain.ErrInvalidGeometry
)
