// Package keyspace lays out the Redis keys of every index.
//
//	<prefix>collection:<index>            index mapping hash
//	<prefix>{<index>}:idx                 FT index over point hashes
//	<prefix>{<index>}:pt:<doc>:<field>:<n> one hash per indexed point
//	<prefix>{<index>}:doc:<doc>           document source and stored values
//
// The braces keep an index's keys in one cluster slot and separate data keys
// from mapping keys whatever the index is called.
package keyspace

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "xydex:"

// Keyspace builds keys under a common prefix.
type Keyspace struct {
	prefix string
}

// New creates a keyspace. An empty prefix selects DefaultPrefix.
func New(prefix string) Keyspace {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Keyspace{prefix: prefix}
}

// Collection returns the mapping hash key of an index.
func (k Keyspace) Collection(index string) string {
	return k.prefix + "collection:" + index
}

// CollectionPattern matches every mapping hash.
func (k Keyspace) CollectionPattern() string {
	return k.prefix + "collection:*"
}

// Index returns the FT index name.
func (k Keyspace) Index(index string) string {
	return k.data(index) + "idx"
}

// PointPrefix is the FT index key prefix: every point hash of the index.
func (k Keyspace) PointPrefix(index string) string {
	return k.data(index) + "pt:"
}

// Point returns the key of the n-th point of a document field.
func (k Keyspace) Point(index, doc, field string, n int) string {
	return k.PointPrefix(index) + doc + ":" + field + ":" + strconv.Itoa(n)
}

// Document returns the document hash key.
func (k Keyspace) Document(index, id string) string {
	return k.data(index) + "doc:" + id
}

// DataPattern matches every data key of the index.
func (k Keyspace) DataPattern(index string) string {
	return k.data(index) + "*"
}

// IndexFromCollectionKey extracts the index name from a mapping hash key.
func (k Keyspace) IndexFromCollectionKey(key string) (string, error) {
	name, ok := strings.CutPrefix(key, k.prefix+"collection:")
	if !ok || name == "" {
		return "", fmt.Errorf("not a collection key: %s", key)
	}
	return name, nil
}

func (k Keyspace) data(index string) string {
	return k.prefix + "{" + index + "}:"
}

// Point hash attributes. The point field itself holds the WKT form.
const (
	DocAttr = "__doc"
)

// XAttr names the numeric x attribute of a point field.
func XAttr(field string) string { return field + "__x" }

// YAttr names the numeric y attribute of a point field.
func YAttr(field string) string { return field + "__y" }

// Document hash attributes.
const (
	SourceAttr = "__source"
	StoredAttr = "__stored"
	PointsAttr = "__points"
)
