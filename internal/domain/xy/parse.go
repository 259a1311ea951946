package xy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Parse parses one raw JSON document value into a Point.
//
// Accepted forms: a WKT string ("POINT (x y)"), a delimited string "x,y[,z]",
// an object {"x": .., "y": ..} and an array [y, x[, z]]. Note the array form
// lists y first, unlike the delimited string. A third dimension is accepted
// only when ignoreZ is set.
func Parse(raw json.RawMessage, ignoreZ bool) (Point, error) {
	var b Builder
	return ParseInto(&b, raw, ignoreZ)
}

// ParseInto parses raw using b as the accumulation target. b is reset first,
// so the same Builder can be reused across calls.
func ParseInto(b *Builder, raw json.RawMessage, ignoreZ bool) (Point, error) {
	b.Reset()

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Point{}, tokenError(err)
	}

	var p Point
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			p, err = parseObject(b, dec)
		case '[':
			p, err = parseArray(b, dec, ignoreZ)
		default:
			return Point{}, newParseError(ErrUnexpectedToken, "", "token [%s] not allowed", t)
		}
	case string:
		p, err = parseString(b, t, ignoreZ)
	default:
		return Point{}, newParseError(ErrUnexpectedToken, "", "xy_point expected")
	}
	if err != nil {
		return Point{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Point{}, newParseError(ErrUnexpectedToken, "", "unexpected content after xy_point value")
	}
	return p, nil
}

// ParseValue parses an already decoded value (string, []any, map[string]any).
func ParseValue(v any, ignoreZ bool) (Point, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Point{}, &ParseError{Kind: ErrUnexpectedToken, Msg: "xy_point expected", Cause: err}
	}
	return Parse(raw, ignoreZ)
}

// ParseString parses the string forms: WKT when the text mentions "point"
// (case-insensitive), the delimited "x,y[,z]" form otherwise.
func ParseString(s string, ignoreZ bool) (Point, error) {
	var b Builder
	return parseString(&b, s, ignoreZ)
}

func parseString(b *Builder, s string, ignoreZ bool) (Point, error) {
	if strings.Contains(strings.ToLower(s), "point") {
		return parseWKT(s, ignoreZ)
	}
	return parseDelimited(b, s, ignoreZ)
}

func parseDelimited(b *Builder, s string, ignoreZ bool) (Point, error) {
	vals := strings.Split(s, ",")
	if len(vals) < 2 || len(vals) > 3 {
		return Point{}, newParseError(ErrWrongDimensionCount, "",
			"failed to parse [%s], expected 2 or 3 coordinates but found: [%d]", s, len(vals))
	}

	x, err := parseCoord(vals[0])
	if err != nil {
		return Point{}, &ParseError{Kind: ErrInvalidX, Field: X, Msg: "x must be a number", Cause: err}
	}
	y, err := parseCoord(vals[1])
	if err != nil {
		return Point{}, &ParseError{Kind: ErrInvalidY, Field: Y, Msg: "y must be a number", Cause: err}
	}
	if len(vals) == 3 {
		z, err := parseCoord(vals[2])
		if err != nil {
			return Point{}, &ParseError{Kind: ErrNonNumericElement, Field: "z", Msg: "z must be a number", Cause: err}
		}
		if err := checkZ(ignoreZ, z); err != nil {
			return Point{}, err
		}
	}

	return b.SetX(x).SetY(y).Build()
}

func parseObject(b *Builder, dec *json.Decoder) (Point, error) {
	var (
		numErr      error
		numErrField string
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			return Point{}, tokenError(err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			break
		}
		key, ok := tok.(string)
		if !ok {
			return Point{}, newParseError(ErrUnexpectedToken, "", "token [%v] not allowed", tok)
		}

		var set func(float64) *Builder
		switch key {
		case X:
			set = b.SetX
		case Y:
			set = b.SetY
		default:
			return Point{}, newParseError(ErrUnknownField, key, "field must be either [%s] or [%s]", X, Y)
		}

		val, err := dec.Token()
		if err != nil {
			return Point{}, tokenError(err)
		}
		f, err := coerce(val)
		if errors.Is(err, errNotNumeric) {
			return Point{}, newParseError(coordKind(key), key, "%s must be a number", key)
		}
		if err != nil {
			// keep scanning: unknown keys and malformed tokens later in the
			// object take precedence over a coercion failure
			numErr, numErrField = err, key
			continue
		}
		set(f)
	}

	if numErr != nil {
		return Point{}, &ParseError{
			Kind:  coordKind(numErrField),
			Field: numErrField,
			Msg:   fmt.Sprintf("[%s] and [%s] must be valid double values", X, Y),
			Cause: numErr,
		}
	}
	return b.Build()
}

func parseArray(b *Builder, dec *json.Decoder, ignoreZ bool) (Point, error) {
	element := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Point{}, tokenError(err)
		}
		n, ok := tok.(json.Number)
		if !ok {
			return Point{}, newParseError(ErrNonNumericElement, "", "numeric value expected")
		}
		f, err := n.Float64()
		if err != nil {
			return Point{}, &ParseError{Kind: ErrNonNumericElement, Msg: "numeric value expected", Cause: err}
		}

		element++
		switch element {
		case 1:
			b.SetY(f)
		case 2:
			b.SetX(f)
		case 3:
			if err := checkZ(ignoreZ, f); err != nil {
				return Point{}, err
			}
		default:
			return Point{}, newParseError(ErrTooManyDimensions, "",
				"[%s] field type does not accept > 3 dimensions", FieldType)
		}
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return Point{}, tokenError(err)
	}
	return b.Build()
}

// checkZ applies the z-value policy. The value is validated even though it
// is discarded on success.
func checkZ(ignoreZ bool, z float64) error {
	if ignoreZ {
		return nil
	}
	return newParseError(ErrUnexpectedZValue, "z",
		"Exception parsing coordinates: found Z value [%s] but [%s] parameter is [%t]",
		formatCoord(z), IgnoreZValueParam, ignoreZ)
}

var errNotNumeric = errors.New("not a number or numeric string")

func coerce(tok json.Token) (float64, error) {
	switch v := tok.(type) {
	case json.Number:
		return parseCoord(v.String())
	case string:
		return parseCoord(v)
	default:
		return 0, errNotNumeric
	}
}

func parseCoord(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("coordinate [%s] is not finite", s)
	}
	return f, nil
}

func coordKind(field string) error {
	if field == Y {
		return ErrInvalidY
	}
	return ErrInvalidX
}

func tokenError(err error) error {
	return &ParseError{Kind: ErrUnexpectedToken, Msg: "malformed xy_point value", Cause: err}
}
