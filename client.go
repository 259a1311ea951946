package xydex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/xydex/internal/db"
	dbRedis "github.com/kailas-cloud/xydex/internal/db/redis"
	dbValkey "github.com/kailas-cloud/xydex/internal/db/valkey"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
	collectionrepo "github.com/kailas-cloud/xydex/internal/repository/collection"
	documentrepo "github.com/kailas-cloud/xydex/internal/repository/document"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
	"github.com/kailas-cloud/xydex/internal/repository/memory"
	searchrepo "github.com/kailas-cloud/xydex/internal/repository/search"
	collectionuc "github.com/kailas-cloud/xydex/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/xydex/internal/usecase/document"
	"github.com/kailas-cloud/xydex/internal/usecase/query"
	searchuc "github.com/kailas-cloud/xydex/internal/usecase/search"
)

const (
	driverMemory = "memory"
	driverRedis  = "redis"
	driverValkey = "valkey"

	defaultReadinessTimeout = 10 * time.Second
)

// Client is the xydex SDK entry point.
type Client struct {
	store     db.Store // nil for the memory engine
	collSvc   *collectionuc.Service
	docSvc    *documentuc.Service
	searchSvc *searchuc.Service
}

// New creates a Client. Without options the indexes live in memory.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:           driverMemory,
		readinessTimeout: defaultReadinessTimeout,
	}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.driver == driverMemory {
		e := memory.New()
		return wire(nil, cfg.driver, e.Collections(), e.Documents(), e), nil
	}
	if len(cfg.addrs) == 0 {
		return nil, errors.New("xydex: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(context.Background(), cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("xydex: database not ready: %w", err)
	}

	ks := keyspace.New(cfg.keyPrefix)
	return wire(store, cfg.driver,
		collectionrepo.New(store, ks),
		documentrepo.New(store, ks),
		searchrepo.New(store, ks).WithPageSize(cfg.pageSize),
	), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverValkey:
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("xydex: create valkey store: %w", err)
		}
		return s, nil
	case driverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
			GeoShape: true,
		})
		if err != nil {
			return nil, fmt.Errorf("xydex: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("xydex: unknown driver %q", cfg.driver)
	}
}

func wire(
	store db.Store,
	engine string,
	colls collectionuc.Repository,
	docs documentuc.Repository,
	search searchuc.Repository,
) *Client {
	p := query.NewProcessor(query.NewCompiler(domquery.DefaultBuilders()))
	return &Client{
		store:     store,
		collSvc:   collectionuc.New(colls),
		docSvc:    documentuc.New(docs, colls),
		searchSvc: searchuc.New(search, colls, docs, p, engine),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Indexes returns the index management service.
func (c *Client) Indexes() *IndexService {
	return &IndexService{svc: c.collSvc}
}

// Documents returns the document service for a given index.
func (c *Client) Documents(index string) *DocumentService {
	return &DocumentService{index: index, svc: c.docSvc}
}

// Search returns the search service for a given index.
func (c *Client) Search(index string) *SearchService {
	return &SearchService{index: index, svc: c.searchSvc}
}
