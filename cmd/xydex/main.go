package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xydex/internal/config"
	"github.com/kailas-cloud/xydex/internal/db"
	dbRedis "github.com/kailas-cloud/xydex/internal/db/redis"
	dbValkey "github.com/kailas-cloud/xydex/internal/db/valkey"
	"github.com/kailas-cloud/xydex/internal/domain/collection/field"
	domquery "github.com/kailas-cloud/xydex/internal/domain/query"
	logpkg "github.com/kailas-cloud/xydex/internal/logger"
	"github.com/kailas-cloud/xydex/internal/metrics"
	collectionrepo "github.com/kailas-cloud/xydex/internal/repository/collection"
	documentrepo "github.com/kailas-cloud/xydex/internal/repository/document"
	"github.com/kailas-cloud/xydex/internal/repository/keyspace"
	"github.com/kailas-cloud/xydex/internal/repository/memory"
	searchrepo "github.com/kailas-cloud/xydex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/xydex/internal/transport/chi"
	batchuc "github.com/kailas-cloud/xydex/internal/usecase/batch"
	collectionuc "github.com/kailas-cloud/xydex/internal/usecase/collection"
	documentuc "github.com/kailas-cloud/xydex/internal/usecase/document"
	healthuc "github.com/kailas-cloud/xydex/internal/usecase/health"
	"github.com/kailas-cloud/xydex/internal/usecase/query"
	searchuc "github.com/kailas-cloud/xydex/internal/usecase/search"
	"github.com/kailas-cloud/xydex/internal/version"
)

// backend is the storage side of the composition root.
type backend struct {
	engine      string
	pinger      healthuc.DBPinger
	collections collectionuc.Repository
	documents   documentuc.Repository
	search      searchuc.Repository
	close       func()
}

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load(".env")

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting xydex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	be, err := newBackend(ctx, &cfg)
	if err != nil {
		logger.Fatal("Failed to create storage backend", zap.Error(err))
	}
	defer be.close()
	logger.Info("Storage backend ready", zap.String("engine", be.engine))

	// Register spatial metrics explicitly (no init())
	metrics.RegisterSpatialMetrics()

	processor := query.NewProcessor(query.NewCompiler(domquery.DefaultBuilders()))

	collSvc := collectionuc.New(be.collections)
	docSvc := documentuc.New(be.documents, be.collections)
	searchSvc := searchuc.New(be.search, be.collections, be.documents, processor, be.engine)
	batchSvc := batchuc.New(docSvc, be.collections).WithMaxBatchSize(cfg.Bulk.MaxBatchSize)

	names, err := ensureIndexes(ctx, collSvc, cfg.Indexes)
	if err != nil {
		logger.Fatal("Failed to ensure configured indexes", zap.Error(err))
	}

	var indexChecker healthuc.IndexChecker
	if len(names) > 0 {
		indexChecker = collSvc.Require(names...)
	}
	healthSvc := healthuc.New(be.pinger, indexChecker)

	server := chiTransport.NewServer(collSvc, docSvc, batchSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newBackend connects the configured driver. The redis and valkey drivers
// wait for the server before returning.
func newBackend(ctx context.Context, cfg *config.Config) (backend, error) {
	var (
		store db.Store
		err   error
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		e := memory.New()
		return backend{
			engine:      config.DriverMemory,
			pinger:      e,
			collections: e.Collections(),
			documents:   e.Documents(),
			search:      e,
			close:       func() {},
		}, nil
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
			GeoShape: true,
		})
	case config.DriverValkey:
		store, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
	default:
		return backend{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return backend{}, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
	}

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return backend{}, fmt.Errorf("database not ready: %w", err)
	}
	logpkg.FromContext(ctx).Info("Connected to database",
		zap.Bool("geoshape", store.SupportsGeoShape(ctx)))

	ks := keyspace.New(cfg.Storage.KeyPrefix)
	return backend{
		engine:      cfg.Database.Driver,
		pinger:      store,
		collections: collectionrepo.New(store, ks),
		documents:   documentrepo.New(store, ks),
		search:      searchrepo.New(store, ks).WithPageSize(cfg.Search.PageSize),
		close:       store.Close,
	}, nil
}

// ensureIndexes creates the configured indexes that do not exist yet and
// returns their names.
func ensureIndexes(ctx context.Context, svc *collectionuc.Service, indexes []config.IndexConfig) ([]string, error) {
	names := make([]string, 0, len(indexes))
	for _, ic := range indexes {
		fields := make([]field.Field, 0, len(ic.Fields))
		for _, fc := range ic.Fields {
			f, err := fc.Field()
			if err != nil {
				return nil, fmt.Errorf("index %s: %w", ic.Name, err)
			}
			fields = append(fields, f)
		}
		if _, err := svc.Ensure(ctx, ic.Name, fields); err != nil {
			return nil, fmt.Errorf("ensure index %s: %w", ic.Name, err)
		}
		names = append(names, ic.Name)
	}
	return names, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("index", chi.URLParam(r, "index")),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
