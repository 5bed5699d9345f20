package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

// AccessLog writes one zerolog event per request.
func AccessLog() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // let echo's error handler fill in the status before logging
                c.Error(err)
            }

            status := c.Response().Status
            var ev *zerolog.Event
            switch {
            case status >= 500:
                ev = log.Error().Err(err)
            case status >= 400:
                ev = log.Warn()
            default:
                ev = log.Info()
            }
            rid, _ := c.Get("request_id").(string)
            ev.Str("component", "http").
                Str("request_id", rid).
                Str("method", c.Request().Method).
                Str("route", c.Path()).
                Str("uri", c.Request().RequestURI).
                Int("status", status).
                Dur("latency", time.Since(start)).
                Str("user", userKey(c)).
                Msg("request")
            return nil
        }
    }
}
