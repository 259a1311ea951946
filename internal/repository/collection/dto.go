package collection

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
)

// fieldRow is the JSON-serializable representation of a field for HSET.
type fieldRow struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Options *optionsRow `json:"options,omitempty"`
}

type optionsRow struct {
	Index           bool `json:"index"`
	DocValues       bool `json:"doc_values"`
	Store           bool `json:"store"`
	IgnoreMalformed bool `json:"ignore_malformed"`
	IgnoreZValue    bool `json:"ignore_z_value"`
	NullValue       any  `json:"null_value,omitempty"`
}

// collectionToHash converts a domain Collection to a map for HSET.
func collectionToHash(col collection.Collection) (map[string]string, error) {
	rows := make([]fieldRow, len(col.Fields()))
	for i, f := range col.Fields() {
		rows[i] = fieldRow{Name: f.Name(), Type: string(f.FieldType())}
		if f.FieldType() == field.XYPoint {
			o := f.Options()
			rows[i].Options = &optionsRow{
				Index:           o.Index,
				DocValues:       o.DocValues,
				Store:           o.Store,
				IgnoreMalformed: o.IgnoreMalformed,
				IgnoreZValue:    o.IgnoreZValue,
				NullValue:       o.NullValue,
			}
		}
	}
	fieldsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal fields: %w", err)
	}
	return map[string]string{
		"name":        col.Name(),
		"fields_json": string(fieldsJSON),
	}, nil
}

// collectionFromHash hydrates a domain Collection from an HGETALL result map.
func collectionFromHash(m map[string]string) (collection.Collection, error) {
	var rows []fieldRow
	if fieldsJSON := m["fields_json"]; fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &rows); err != nil {
			return collection.Collection{}, fmt.Errorf("unmarshal fields: %w", err)
		}
	}

	fields := make([]field.Field, len(rows))
	for i, r := range rows {
		opts := field.DefaultOptions()
		if r.Options != nil {
			opts = field.Options{
				Index:           r.Options.Index,
				DocValues:       r.Options.DocValues,
				Store:           r.Options.Store,
				IgnoreMalformed: r.Options.IgnoreMalformed,
				IgnoreZValue:    r.Options.IgnoreZValue,
				NullValue:       r.Options.NullValue,
			}
		}
		f, err := field.NewWithOptions(r.Name, field.Type(r.Type), opts)
		if err != nil {
			return collection.Collection{}, fmt.Errorf("field %s: %w", r.Name, err)
		}
		fields[i] = f
	}

	col, err := collection.New(m["name"], fields)
	if err != nil {
		return collection.Collection{}, fmt.Errorf("collection %s: %w", m["name"], err)
	}
	return col, nil
}
