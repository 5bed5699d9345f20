package config

import "time"

// IdempotencyConfig controls the Idempotency-Key guard on planner and
// booking submissions.  A key is remembered for TTL; a second request with
// the same key inside that window is refused.
type IdempotencyConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

func LoadIdempotencyConfig() IdempotencyConfig {
    cfg := IdempotencyConfig{
        Enabled: envBool("IDEMPOTENCY_ENABLED", true),
        TTL:     envDur("IDEMPOTENCY_TTL", 24*time.Hour),
        Prefix:  envStr("IDEMPOTENCY_PREFIX", "park:idem"),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = time.Hour
    }
    return cfg
}
