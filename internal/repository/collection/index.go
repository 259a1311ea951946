package collection

import (
	"github.com/kailas-cloud/xydex/internal/db"
	domcol "github.com/kailas-cloud/xydex/internal/domain/collection"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
)

// buildIndex creates the FT index over the point hashes of a collection.
// A point field gets a GEOSHAPE attribute when it has a range index and the
// backend supports GEOSHAPE, and numeric x/y attributes when it has any index.
func buildIndex(ks keyspace.Keyspace, col domcol.Collection, geoShape bool) (*db.IndexDefinition, error) {
	b := db.NewIndex(ks.Index(col.Name())).
		Prefix(ks.PointPrefix(col.Name())).
		TagWithOpts(keyspace.DocAttr, ",", true)

	for _, f := range col.PointFields() {
		opts := f.Options()
		if opts.Index && geoShape {
			b.GeoShape(f.Name())
		}
		if opts.Index || opts.DocValues {
			b.Numeric(keyspace.XAttr(f.Name())).Numeric(keyspace.YAttr(f.Name()))
		}
	}

	def, err := b.Build()
	if err != nil {
		return nil, err //nolint:wrapcheck // caller adds context
	}
	return def, nil
}
