package document

// Artifact is one index entry derived from a point value.
type Artifact interface {
	FieldName() string
	isArtifact()
}

// RangeEntry feeds the fast point-search structure.
type RangeEntry struct {
	Field string
	X, Y  float64
}

// ColumnarEntry feeds the per-document column store.
type ColumnarEntry struct {
	Field string
	X, Y  float64
}

// StoredEntry carries the retrievable text form "Point(x,y)".
type StoredEntry struct {
	Field string
	Value string
}

func (e RangeEntry) FieldName() string    { return e.Field }
func (e ColumnarEntry) FieldName() string { return e.Field }
func (e StoredEntry) FieldName() string   { return e.Field }

func (RangeEntry) isArtifact()    {}
func (ColumnarEntry) isArtifact() {}
func (StoredEntry) isArtifact()   {}
