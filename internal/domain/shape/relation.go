package shape

import (
	"fmt"
	"strings"
)

// Relation is the spatial predicate between the query shape and indexed values.
type Relation string

// Relations shared with the other spatial field types.
const (
	Intersects Relation = "INTERSECTS"
	Contains   Relation = "CONTAINS"
	Within     Relation = "WITHIN"
	Disjoint   Relation = "DISJOINT"
)

// ParseRelation parses a relation name case-insensitively.
// An empty name means INTERSECTS.
func ParseRelation(s string) (Relation, error) {
	if s == "" {
		return Intersects, nil
	}
	r := Relation(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case Intersects, Contains, Within, Disjoint:
		return r, nil
	default:
		return "", fmt.Errorf("unknown shape relation [%s]", s)
	}
}

func (r Relation) String() string { return string(r) }
