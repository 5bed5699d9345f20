package config

import "time"

// Budget is one token bucket: up to Burst requests at once, refilled evenly
// so that an empty bucket is full again after Window.
type Budget struct {
    Burst  int
    Window time.Duration
}

// RateLimitConfig drives the Redis token buckets.  Every visitor (or client
// IP on the public catalog) has one Browse bucket shared by all reads and a
// separate Write bucket per submission route.
type RateLimitConfig struct {
    Enabled bool
    Browse  Budget
    Write   Budget
    Prefix  string
}

func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: envBool("RATE_LIMIT_ENABLED", true),
        Browse: Budget{
            Burst:  envInt("RATE_LIMIT_BROWSE_BURST", 60),
            Window: envDur("RATE_LIMIT_BROWSE_WINDOW", time.Minute),
        },
        Write: Budget{
            Burst:  envInt("RATE_LIMIT_WRITE_BURST", 10),
            Window: envDur("RATE_LIMIT_WRITE_WINDOW", time.Minute),
        },
        Prefix: envStr("RATE_LIMIT_PREFIX", "park:rl"),
    }
    cfg.Browse = cfg.Browse.clamp()
    cfg.Write = cfg.Write.clamp()
    return cfg
}

func (b Budget) clamp() Budget {
    if b.Burst < 1 {
        b.Burst = 1
    }
    if b.Window < time.Second {
        b.Window = time.Second
    }
    return b
}
