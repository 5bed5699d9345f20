package middleware

import (
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"

    "github.com/lorenzaCara/enjoypark/internal/config"
)

// takeToken refills the bucket in KEYS[1] for the time elapsed since its
// last use and takes one token.  Tokens are fractional so a slow refill
// is never lost to rounding.
// ARGV: burst, window_ms, now_ms.  Returns {allowed, tokens_left, wait_ms}.
var takeToken = redis.NewScript(`
local burst = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local rate = burst / window

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local ts = tonumber(redis.call('HGET', KEYS[1], 'ts'))
if tokens == nil or ts == nil then
    tokens = burst
    ts = now
end
tokens = math.min(burst, tokens + math.max(0, now - ts) * rate)

local allowed = 0
local wait = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
else
    wait = math.ceil((1 - tokens) / rate)
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', tostring(now))
redis.call('PEXPIRE', KEYS[1], window)
return {allowed, math.floor(tokens), wait}
`)

// NewTokenBucket limits requests per visitor.  Reads share one Browse
// budget; each write route (adding to a planner, booking a service) has its
// own Write budget so browsing never eats into submissions.  Anonymous
// catalog requests are keyed by client IP.  Redis errors let the request
// through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key, budget := bucketFor(cfg, c)
            res, err := takeToken.Run(c.Request().Context(), rdb, []string{key},
                budget.Burst, budget.Window.Milliseconds(), time.Now().UnixMilli()).Int64Slice()
            if err != nil || len(res) != 3 {
                log.Warn().Err(err).Str("component", "ratelimit").Str("key", key).Msg("token bucket unavailable")
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(budget.Burst))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))
            if res[0] == 1 {
                return next(c)
            }

            secs := (res[2] + 999) / 1000
            if secs < 1 {
                secs = 1
            }
            c.Response().Header().Set("Retry-After", strconv.FormatInt(secs, 10))
            log.Debug().Str("component", "ratelimit").Str("key", key).Int64("retry_after", secs).Msg("blocked")
            return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests", "retry_after": secs})
        }
    }
}

// bucketFor names the bucket a request draws from, e.g.
// "park:rl:visitor:42:browse" or "park:rl:visitor:42:write:/v1/planners/items".
func bucketFor(cfg config.RateLimitConfig, c echo.Context) (string, config.Budget) {
    who := "ip:" + c.RealIP()
    if id, ok := UserID(c); ok {
        who = "visitor:" + strconv.FormatUint(id, 10)
    }
    switch c.Request().Method {
    case http.MethodGet, http.MethodHead, http.MethodOptions:
        return strings.Join([]string{cfg.Prefix, who, "browse"}, ":"), cfg.Browse
    }
    return strings.Join([]string{cfg.Prefix, who, "write", c.Path()}, ":"), cfg.Write
}
