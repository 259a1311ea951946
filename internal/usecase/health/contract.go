package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker verifies that the configured indexes are present.
type IndexChecker interface {
	Check(ctx context.Context) error
}
