package document

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/xydex/internal/db"
	domdoc "github.com/kailas-cloud/xydex/internal/domain/document"
	"github.com/kailas-cloud/xydex/internal/domain/xy"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
)

// pointHashes lays the range and columnar entries of a document out as point
// hashes. The n-th range entry and the n-th columnar entry of a field share
// the n-th hash: the range entry adds the WKT attribute, either adds x/y.
func pointHashes(ks keyspace.Keyspace, collectionName string, doc *domdoc.Document) ([]db.HashSetItem, []string) {
	var items []db.HashSetItem
	var keys []string
	slot := make(map[string]int) // key -> items index
	rangeN := make(map[string]int)
	colN := make(map[string]int)

	hash := func(f string, n int) map[string]string {
		k := ks.Point(collectionName, doc.ID(), f, n)
		if i, ok := slot[k]; ok {
			return items[i].Fields
		}
		slot[k] = len(items)
		keys = append(keys, k)
		items = append(items, db.HashSetItem{Key: k, Fields: map[string]string{keyspace.DocAttr: doc.ID()}})
		return items[len(items)-1].Fields
	}

	for _, a := range doc.Artifacts() {
		switch e := a.(type) {
		case domdoc.RangeEntry:
			h := hash(e.Field, rangeN[e.Field])
			rangeN[e.Field]++
			p := xy.New(e.X, e.Y)
			h[e.Field] = p.WKT()
			setXY(h, e.Field, p)
		case domdoc.ColumnarEntry:
			h := hash(e.Field, colN[e.Field])
			colN[e.Field]++
			setXY(h, e.Field, xy.New(e.X, e.Y))
		}
	}
	return items, keys
}

func setXY(h map[string]string, f string, p xy.Point) {
	h[keyspace.XAttr(f)] = formatFloat(p.X())
	h[keyspace.YAttr(f)] = formatFloat(p.Y())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// docToHash converts a document to its HSET fields.
func docToHash(doc *domdoc.Document, points []string) (map[string]string, error) {
	source, err := json.Marshal(doc.Source())
	if err != nil {
		return nil, fmt.Errorf("marshal source: %w", err)
	}
	stored, err := json.Marshal(doc.Stored())
	if err != nil {
		return nil, fmt.Errorf("marshal stored: %w", err)
	}
	if points == nil {
		points = []string{}
	}
	pts, err := json.Marshal(points)
	if err != nil {
		return nil, fmt.Errorf("marshal points: %w", err)
	}
	return map[string]string{
		keyspace.SourceAttr: string(source),
		keyspace.StoredAttr: string(stored),
		keyspace.PointsAttr: string(pts),
	}, nil
}

// docFromHash hydrates a document from an HGETALL result map.
func docFromHash(id string, m map[string]string) (domdoc.Document, error) {
	var source map[string]json.RawMessage
	if s := m[keyspace.SourceAttr]; s != "" {
		if err := json.Unmarshal([]byte(s), &source); err != nil {
			return domdoc.Document{}, fmt.Errorf("unmarshal source of %s: %w", id, err)
		}
	}
	var stored map[string][]string
	if s := m[keyspace.StoredAttr]; s != "" {
		if err := json.Unmarshal([]byte(s), &stored); err != nil {
			return domdoc.Document{}, fmt.Errorf("unmarshal stored of %s: %w", id, err)
		}
	}
	return domdoc.Reconstruct(id, source, stored), nil
}

func pointKeys(m map[string]string) ([]string, error) {
	s := m[keyspace.PointsAttr]
	if s == "" {
		return nil, nil
	}
	var keys []string
	if err := json.Unmarshal([]byte(s), &keys); err != nil {
		return nil, fmt.Errorf("unmarshal points: %w", err)
	}
	return keys, nil
}
