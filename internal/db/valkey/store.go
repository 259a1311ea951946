// Package valkey connects to Valkey with the valkey-search module. It reuses
// the Redis store; valkey-search has no GEOSHAPE field type, so indexes carry
// the columnar NUMERIC fields only.
package valkey

import (
	"github.com/redis/rueidis"

	"github.com/kailas-cloud/xydex/internal/db/redis"
)

// Config holds connection parameters for a Valkey store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// NewStore creates a Valkey store.
func NewStore(cfg Config) (*redis.Store, error) {
	return redis.NewStore(redis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
		GeoShape: false,
	})
}

// NewStoreForTest creates a Valkey store over the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *redis.Store {
	return redis.NewStoreFromClient(c, false)
}
