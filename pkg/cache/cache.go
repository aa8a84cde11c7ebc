// Package cache provides byte-level caching used to memoize resolution
// results between edge mutations.
//
// Backends: [RedisCache] for the hosted platform, [FileCache] for local
// tooling, and [NullCache] to disable caching. All backends store opaque
// bytes with an optional TTL; key construction lives in [Keyer] so that
// callers never concatenate key strings by hand.
//
// Resolution results are only valid until the dependency graph changes, so
// the mutation guard deletes affected keys on every edge upsert or delete.
// TTLs are a backstop, not the primary invalidation mechanism.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with optional expiry.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds namespaced cache keys for the resolution engine.
type Keyer interface {
	// ResultKey keys a cached resolution result by module and target.
	ResultKey(moduleID, targetID string) string

	// ModulePrefix returns the key prefix shared by every cached result
	// involving the module. The mutation guard deletes by this prefix when
	// a backend supports it, and falls back to TTL expiry when it does not.
	ModulePrefix(moduleID string) string
}

// DefaultKeyer builds keys of the form "resolve:<module>:<hash(target)>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ResultKey generates a key for a resolution result.
func (DefaultKeyer) ResultKey(moduleID, targetID string) string {
	return hashKey("resolve:"+moduleID, targetID)
}

// ModulePrefix returns the deletion prefix for a module's cached results.
func (DefaultKeyer) ModulePrefix(moduleID string) string {
	return "resolve:" + moduleID + ":"
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation, so
// different agencies or environments get separate cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ResultKey generates a prefixed key for a resolution result.
func (k *ScopedKeyer) ResultKey(moduleID, targetID string) string {
	return k.prefix + k.inner.ResultKey(moduleID, targetID)
}

// ModulePrefix generates a prefixed deletion prefix.
func (k *ScopedKeyer) ModulePrefix(moduleID string) string {
	return k.prefix + k.inner.ModulePrefix(moduleID)
}

// PrefixDeleter is an optional extension for backends that can delete every
// key under a prefix. RedisCache implements it via SCAN; FileCache via
// directory walk.
type PrefixDeleter interface {
	// DeletePrefix removes all keys beginning with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
