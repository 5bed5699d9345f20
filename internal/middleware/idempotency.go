package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"

    "github.com/lorenzaCara/enjoypark/internal/config"
)

// IdempotencyHeader names the client-chosen key of a submission.
const IdempotencyHeader = "Idempotency-Key"

// NewIdempotency lets each Idempotency-Key through once per user within the
// configured TTL.  A repeated key gets 409.  Only a successful (2xx)
// submission keeps the key; a rejected or failed one releases it so the
// visitor can correct the form and resend with the same key.  Requests without
// the header, and all requests when Redis is absent, pass straight through.
func NewIdempotency(cfg config.IdempotencyConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := strings.TrimSpace(c.Request().Header.Get(IdempotencyHeader))
            if raw == "" {
                return next(c)
            }
            if len(raw) > 128 {
                return c.JSON(http.StatusBadRequest, echo.Map{"error": "idempotency key too long"})
            }
            key := strings.Join([]string{cfg.Prefix, userKey(c), c.Request().Method, c.Path(), raw}, ":")

            ctx := c.Request().Context()
            fresh, err := rdb.SetNX(ctx, key, "1", cfg.TTL).Result()
            if err != nil {
                log.Warn().Err(err).Str("component", "idempotency").Msg("redis setnx failed")
                return next(c)
            }
            if !fresh {
                return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate request"})
            }

            err = next(c)
            if status := c.Response().Status; err != nil || status < 200 || status > 299 {
                if derr := rdb.Del(ctx, key).Err(); derr != nil {
                    log.Warn().Err(derr).Str("component", "idempotency").Msg("release key failed")
                }
            }
            return err
        }
    }
}
