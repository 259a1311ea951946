package xydex

import "github.com/kailas-cloud/xydex/internal/domain/collection/field"

// FieldSpec describes one field of an index mapping.
type FieldSpec struct {
	name string
	typ  field.Type
	opts field.Options
}

// PointOption configures an xy_point field.
type PointOption func(*field.Options)

// XYPoint declares a planar point field. Range and columnar indexing are on
// unless disabled.
func XYPoint(name string, opts ...PointOption) FieldSpec {
	o := field.DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return FieldSpec{name: name, typ: field.XYPoint, opts: o}
}

// Tag declares an exact-match string field.
func Tag(name string) FieldSpec {
	return FieldSpec{name: name, typ: field.Tag, opts: field.DefaultOptions()}
}

// Numeric declares a number field.
func Numeric(name string) FieldSpec {
	return FieldSpec{name: name, typ: field.Numeric, opts: field.DefaultOptions()}
}

// Stored keeps each point's canonical form with the document.
func Stored() PointOption { return func(o *field.Options) { o.Store = true } }

// NotIndexed disables the range index; the field can no longer be searched.
func NotIndexed() PointOption { return func(o *field.Options) { o.Index = false } }

// NoDocValues disables the columnar index.
func NoDocValues() PointOption { return func(o *field.Options) { o.DocValues = false } }

// IgnoreMalformed drops unparseable values instead of rejecting the document.
func IgnoreMalformed() PointOption { return func(o *field.Options) { o.IgnoreMalformed = true } }

// RejectZValue fails on points with a third coordinate.
func RejectZValue() PointOption { return func(o *field.Options) { o.IgnoreZValue = false } }

// NullValue substitutes v for explicit nulls.
func NullValue(v any) PointOption { return func(o *field.Options) { o.NullValue = v } }

func (s FieldSpec) build() (field.Field, error) {
	return field.NewWithOptions(s.name, s.typ, s.opts) //nolint:wrapcheck // wrapped by caller
}
