package xydex

import "time"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver           string // memory, redis or valkey
	addrs            []string
	password         string
	keyPrefix        string
	pageSize         int
	readinessTimeout time.Duration
}

// WithMemory keeps every index in process memory. This is the default.
func WithMemory() Option {
	return func(c *clientConfig) {
		c.driver = driverMemory
		c.addrs = nil
	}
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithKeyPrefix sets the prefix of every key the client writes.
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithPageSize sets how many candidates a search fetches per round trip.
func WithPageSize(n int) Option {
	return func(c *clientConfig) {
		c.pageSize = n
	}
}

// WithReadinessTimeout bounds how long New waits for the database.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.readinessTimeout = d
	}
}
