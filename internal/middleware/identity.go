package middleware

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

// UserID returns the visitor id stored by JWTAuth.
func UserID(c echo.Context) (uint64, bool) {
    id, ok := c.Get(ctxUserID).(uint64)
    return id, ok && id > 0
}

// userKey is the user part of idempotency keys and access log lines; "anon"
// on public routes.
func userKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "anon"
}

func parseID(s string) (uint64, bool) {
    n, err := strconv.ParseUint(s, 10, 64)
    return n, err == nil && n > 0
}
