package field

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/xydex/internal/domain/xy"
)

// Type is the mapping type of a field.
type Type string

// Field type constants.
const (
	// XYPoint is a planar point field.
	XYPoint Type = xy.FieldType
	// Tag is a tag (exact match) field.
	Tag     Type = "tag"
	Numeric Type = "numeric"
)

var reservedFieldNames = map[string]bool{
	"id": true, "_id": true,
}

// Options are the xy_point mapping parameters.
type Options struct {
	Index           bool
	DocValues       bool
	Store           bool
	IgnoreMalformed bool
	IgnoreZValue    bool
	// NullValue is substituted for explicit nulls; nil disables substitution.
	NullValue any
}

// DefaultOptions returns the xy_point mapping defaults.
func DefaultOptions() Options {
	return Options{Index: true, DocValues: true, IgnoreZValue: true}
}

// IndexMetadata describes which index structures exist for a field.
type IndexMetadata struct {
	FieldName        string
	HasRangeIndex    bool
	HasColumnarIndex bool
}

// Descriptor is what the query layer needs to know about a mapped field.
type Descriptor interface {
	Name() string
	TypeName() string
	IndexMetadata() IndexMetadata
}

// Field is an immutable value object describing a mapped field.
type Field struct {
	name      string
	fieldType Type
	opts      Options
	nullPoint *xy.Point
}

var _ Descriptor = Field{}

// New validates and creates a Field with default options.
// Name must be non-empty, max 64 chars, not reserved and free of "__".
func New(name string, ft Type) (Field, error) {
	return NewWithOptions(name, ft, DefaultOptions())
}

// NewWithOptions validates and creates a Field. For xy_point fields a
// configured null value must itself parse as a point.
func NewWithOptions(name string, ft Type, opts Options) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("field name %q too long (max 64)", name)
	}
	if reservedFieldNames[name] {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if strings.Contains(name, "__") {
		return Field{}, fmt.Errorf("field name %q must not contain \"__\"", name)
	}
	if ft != XYPoint && ft != Tag && ft != Numeric {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}

	f := Field{name: name, fieldType: ft, opts: opts}
	if ft == XYPoint && opts.NullValue != nil {
		p, err := xy.ParseValue(opts.NullValue, opts.IgnoreZValue)
		if err != nil {
			return Field{}, fmt.Errorf("null_value of %q: %w", name, err)
		}
		f.nullPoint = &p
	}
	return f, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's mapping type.
func (f Field) FieldType() Type { return f.fieldType }

// TypeName returns the mapping type name.
func (f Field) TypeName() string { return string(f.fieldType) }

// Options returns the mapping parameters.
func (f Field) Options() Options { return f.opts }

// NullPoint returns the parsed null value, if one is configured.
func (f Field) NullPoint() (xy.Point, bool) {
	if f.nullPoint == nil {
		return xy.Point{}, false
	}
	return *f.nullPoint, true
}

// IndexMetadata reports the index structures built for the field.
func (f Field) IndexMetadata() IndexMetadata {
	return IndexMetadata{
		FieldName:        f.name,
		HasRangeIndex:    f.opts.Index,
		HasColumnarIndex: f.opts.DocValues,
	}
}
