package cli

import (
	"context"
	"fmt"

	"github.com/dramac-main/dramac-cms-sub010/internal/config"
	"github.com/dramac-main/dramac-cms-sub010/pkg/cache"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
	"github.com/dramac-main/dramac-cms-sub010/pkg/resolve"
	"github.com/dramac-main/dramac-cms-sub010/pkg/store/memory"
	mongostore "github.com/dramac-main/dramac-cms-sub010/pkg/store/mongo"
)

// buildEngine constructs the resolution engine from the loaded config:
// store backend, cache backend, logger. The returned cleanup closes whatever
// was opened and must be called before exit.
func buildEngine(ctx context.Context) (*resolve.Engine, func(), error) {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPathFromContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	var cleanup []func()
	closeAll := func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}

	var store registry.Store
	switch cfg.Store.Backend {
	case "mongo":
		ms, err := mongostore.Connect(ctx, cfg.Store.URI, cfg.Store.Database)
		if err != nil {
			return nil, nil, err
		}
		cleanup = append(cleanup, func() { _ = ms.Close(context.Background()) })
		store = ms
		logger.Debug("using mongo store", "database", cfg.Store.Database)
	case "fixture", "":
		if cfg.Store.Fixture == "" {
			return nil, nil, fmt.Errorf("fixture store selected but store.fixture is not set in %s", configPathFromContext(ctx))
		}
		fs, err := memory.LoadFixture(cfg.Store.Fixture)
		if err != nil {
			return nil, nil, err
		}
		store = fs
		logger.Debug("using fixture store", "path", cfg.Store.Fixture)
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	resultCache, closeCache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	cleanup = append(cleanup, closeCache)

	engine := resolve.New(store, resolve.Options{
		Logger:   logger,
		Cache:    resultCache,
		CacheTTL: cfg.Cache.TTLDuration(),
	})
	return engine, closeAll, nil
}

// buildCache constructs the configured cache backend. The returned close
// function is a no-op for backends without connections.
func buildCache(ctx context.Context, cfg config.Cache) (cache.Cache, func(), error) {
	switch cfg.Backend {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.Addr, cfg.Password, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	case "file":
		fc, err := cache.NewFileCache(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fc, func() {}, nil
	case "none", "":
		return cache.NewNullCache(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// serveAddr loads the HTTP listen address from config.
func serveAddr(ctx context.Context) (string, error) {
	cfg, err := config.Load(configPathFromContext(ctx))
	if err != nil {
		return "", err
	}
	return cfg.HTTP.Addr, nil
}
