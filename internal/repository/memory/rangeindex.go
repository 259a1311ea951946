package memory

import "sort"

type rangeEntry struct {
	x, y float64
	doc  string
}

// rangeIndex keeps entries sorted by x so box lookups only visit the x slab.
type rangeIndex struct {
	entries []rangeEntry
}

func (r *rangeIndex) insert(e rangeEntry) {
	i := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].x > e.x })
	r.entries = append(r.entries, rangeEntry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = e
}

func (r *rangeIndex) removeDoc(id string) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.doc != id {
			kept = append(kept, e)
		}
	}
	clear(r.entries[len(kept):])
	r.entries = kept
}

// scan calls fn for every entry with minX <= x <= maxX and minY <= y <= maxY.
func (r *rangeIndex) scan(minX, maxX, minY, maxY float64, fn func(rangeEntry)) {
	start := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].x >= minX })
	for _, e := range r.entries[start:] {
		if e.x > maxX {
			return
		}
		if e.y >= minY && e.y <= maxY {
			fn(e)
		}
	}
}
