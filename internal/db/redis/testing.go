package redis

import "github.com/redis/rueidis"

// NewStoreForTest creates a Store with GEOSHAPE support over the provided
// rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return NewStoreFromClient(c, true)
}
