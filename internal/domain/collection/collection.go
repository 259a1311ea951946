package collection

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/xydex/internal/domain"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Collection is an index with its field mapping (immutable value object).
// It is the field registry queries resolve field names against.
type Collection struct {
	name   string
	fields []field.Field
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("at least one field is required")
	}
	if len(fields) > 64 {
		return fmt.Errorf("too many fields (max 64)")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// New validates and creates a Collection.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Fields: unique names, 1-64.
func New(name string, fields []field.Field) (Collection, error) {
	if err := validateName(name); err != nil {
		return Collection{}, err
	}
	if err := validateFields(fields); err != nil {
		return Collection{}, err
	}
	return Collection{name: name, fields: fields}, nil
}

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// Fields returns the mapped fields.
func (c Collection) Fields() []field.Field { return c.fields }

// PointFields returns the xy_point fields in mapping order.
func (c Collection) PointFields() []field.Field {
	var out []field.Field
	for _, f := range c.fields {
		if f.FieldType() == field.XYPoint {
			out = append(out, f)
		}
	}
	return out
}

// FieldByName looks up a field by name.
func (c Collection) FieldByName(name string) (field.Field, bool) {
	for _, f := range c.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// Resolve looks up a field descriptor by name.
func (c Collection) Resolve(name string) (field.Descriptor, error) {
	f, ok := c.FieldByName(name)
	if !ok {
		return nil, domain.NewQueryError(domain.ErrFieldNotFound, name,
			"failed to find field [%s] in index [%s]", name, c.name)
	}
	return f, nil
}
