// Package config loads the resolver tooling configuration from a TOML file
// with environment-variable overrides for deployment-specific addresses.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full tooling configuration.
type Config struct {
	Store Store `toml:"store"`
	Cache Cache `toml:"cache"`
	HTTP  HTTP  `toml:"http"`
}

// Store selects and configures the graph store backend.
type Store struct {
	// Backend is "mongo" or "fixture".
	Backend string `toml:"backend"`
	// URI is the MongoDB connection string (mongo backend).
	URI string `toml:"uri"`
	// Database is the MongoDB database name (mongo backend).
	Database string `toml:"database"`
	// Fixture is the JSON fixture path (fixture backend).
	Fixture string `toml:"fixture"`
}

// Cache selects and configures the result cache backend.
type Cache struct {
	// Backend is "redis", "file", or "none".
	Backend string `toml:"backend"`
	// Addr is the Redis address (redis backend).
	Addr string `toml:"addr"`
	// Password is the Redis password (redis backend).
	Password string `toml:"password"`
	// DB is the Redis database index (redis backend).
	DB int `toml:"db"`
	// Dir is the cache directory (file backend).
	Dir string `toml:"dir"`
	// TTL bounds result lifetime; mutation-driven invalidation still
	// applies. Accepts Go duration syntax ("30s", "5m").
	TTL duration `toml:"ttl"`
}

// HTTP configures the resolver HTTP facade.
type HTTP struct {
	// Addr is the listen address for `modgraph serve`.
	Addr string `toml:"addr"`
}

// TTLDuration returns the configured cache TTL.
func (c Cache) TTLDuration() time.Duration { return time.Duration(c.TTL) }

// duration supports Go duration syntax in TOML.
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Default returns the configuration used when no file is present: fixture
// store, no cache, localhost HTTP.
func Default() Config {
	return Config{
		Store: Store{Backend: "fixture"},
		Cache: Cache{Backend: "none", TTL: duration(30 * time.Second)},
		HTTP:  HTTP{Addr: "127.0.0.1:8487"},
	}
}

// Load reads the TOML file at path, applying defaults for missing sections
// and environment overrides (DRAMAC_MONGO_URI, DRAMAC_REDIS_ADDR) last. A
// missing file yields the defaults, not an error, so the CLI works without
// any setup.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if os.IsNotExist(err) {
				return cfg, nil
			}
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if uri := os.Getenv("DRAMAC_MONGO_URI"); uri != "" {
		cfg.Store.Backend = "mongo"
		cfg.Store.URI = uri
	}
	if addr := os.Getenv("DRAMAC_REDIS_ADDR"); addr != "" {
		cfg.Cache.Backend = "redis"
		cfg.Cache.Addr = addr
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "dramac"
	}
	return cfg, nil
}
