package config

import "time"

// CacheConfig controls the Redis cache in front of the public catalog.
// Entries are keyed by catalog resource and the filters that resource
// understands; see middleware.NewCatalogCache.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.  Catalog data changes rarely, so
// the default TTL is a few minutes.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 2*time.Minute),
        Prefix:       envStr("CACHE_PREFIX", "park:cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 2 * time.Minute
    }
    return cfg
}
