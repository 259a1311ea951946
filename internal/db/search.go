package db

// DefaultDialect is the query dialect used for FT.SEARCH. Dialect 3 is the
// lowest that accepts GEOSHAPE predicates with PARAMS.
const DefaultDialect = 3

// SearchQuery is the input for a filter-only FT.SEARCH.
type SearchQuery struct {
	IndexName    string
	Query        string
	Params       map[string]string
	ReturnFields []string
	Offset       int
	Limit        int
	Dialect      int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hash hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
