package resolve

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dramac-main/dramac-cms-sub010/pkg/cache"
	"github.com/dramac-main/dramac-cms-sub010/pkg/observability"
)

// cacheKeyType tags resolver entries in cache hook events.
const cacheKeyType = "resolve_result"

var resultKeyer = cache.NewDefaultKeyer()

// cachedResult loads a memoized Result for (module, target). Unmarshal
// failures are treated as misses; a stale cache must never block resolution.
func (e *Engine) cachedResult(ctx context.Context, moduleID, targetID string) (Result, bool) {
	key := resultKeyer.ResultKey(moduleID, targetID)
	data, err := cache.Fetch(ctx, e.opts.Cache, key)
	switch {
	case errors.Is(err, cache.ErrCacheMiss):
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Result{}, false
	case err != nil:
		e.opts.Logger.Warn("result cache read failed", "module", moduleID, "err", err)
		return Result{}, false
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		_ = e.opts.Cache.Delete(ctx, key)
		return Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return res, true
}

// storeResult memoizes a successful classification. Results carrying a
// synthetic data-source-failure conflict are never cached, so transient
// outages heal on the next call.
func (e *Engine) storeResult(ctx context.Context, moduleID, targetID string, res Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	key := resultKeyer.ResultKey(moduleID, targetID)
	if err := e.opts.Cache.Set(ctx, key, data, e.opts.CacheTTL); err != nil {
		e.opts.Logger.Warn("result cache write failed", "module", moduleID, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// invalidateModule drops every cached result involving the module. Called by
// the mutation guard after a successful edge change; backends without prefix
// deletion fall back to TTL expiry.
//
// A failed invalidation leaves a stale verdict live until the TTL fires, so
// failures the backend marks retryable (Redis outages) get a few more tries
// before giving up.
func (e *Engine) invalidateModule(ctx context.Context, moduleID string) {
	pd, ok := e.opts.Cache.(cache.PrefixDeleter)
	if !ok {
		return
	}
	err := cache.RetryWithBackoff(ctx, func() error {
		return pd.DeletePrefix(ctx, resultKeyer.ModulePrefix(moduleID))
	})
	if err != nil {
		e.opts.Logger.Warn("cache invalidation failed", "module", moduleID, "err", err)
	}
}
