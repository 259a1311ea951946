package indexer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	"github.com/kailas-cloud/xydex/internal/domain/xy"
)

// Result is the contribution of one raw field value.
type Result struct {
	Points []xy.Point
	// Ignored is set when a malformed value was dropped under ignore_malformed.
	Ignored bool
	// Cause holds the parse failure behind Ignored.
	Cause error
}

// FieldParser applies an xy_point mapping to raw document values.
// It is not safe for concurrent use.
type FieldParser struct {
	field   field.Field
	builder xy.Builder
}

// NewFieldParser creates a parser for an xy_point field.
func NewFieldParser(f field.Field) *FieldParser {
	return &FieldParser{field: f}
}

// Parse reads one raw value: a single point in any accepted form, an array of
// such points, or null. A failing element fails the whole value; under
// ignore_malformed the value contributes nothing and Ignored is reported.
func (p *FieldParser) Parse(raw json.RawMessage) (Result, error) {
	points, err := p.parse(bytes.TrimSpace(raw))
	if err != nil {
		if p.field.Options().IgnoreMalformed {
			return Result{Ignored: true, Cause: err}, nil
		}
		return Result{}, fmt.Errorf("failed to parse field [%s] of type [%s]: %w",
			p.field.Name(), p.field.TypeName(), err)
	}
	return Result{Points: points}, nil
}

func (p *FieldParser) parse(raw json.RawMessage) ([]xy.Point, error) {
	if isNull(raw) {
		return p.nullValue(), nil
	}
	if len(raw) == 0 || raw[0] != '[' {
		pt, err := p.parseOne(raw)
		if err != nil {
			return nil, err
		}
		return []xy.Point{pt}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		// Let the coordinate parser report the precise token error.
		_, perr := p.parseOne(raw)
		if perr == nil {
			perr = err
		}
		return nil, perr
	}
	if len(elems) == 0 {
		return nil, nil
	}
	if isNumber(bytes.TrimSpace(elems[0])) {
		pt, err := p.parseOne(raw)
		if err != nil {
			return nil, err
		}
		return []xy.Point{pt}, nil
	}

	points := make([]xy.Point, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if isNull(e) {
			points = append(points, p.nullValue()...)
			continue
		}
		pt, err := p.parseOne(e)
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
	}
	return points, nil
}

func (p *FieldParser) parseOne(raw json.RawMessage) (xy.Point, error) {
	return xy.ParseInto(&p.builder, raw, p.field.Options().IgnoreZValue)
}

func (p *FieldParser) nullValue() []xy.Point {
	if pt, ok := p.field.NullPoint(); ok {
		return []xy.Point{pt}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func isNumber(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	c := raw[0]
	return c == '-' || (c >= '0' && c <= '9')
}
