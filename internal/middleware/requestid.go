package middleware

import (
    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// RequestID propagates X-Request-Id, generating a UUID when the client sent
// none.  The id is also stored as "request_id" for the access log.
func RequestID() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            id := c.Request().Header.Get(echo.HeaderXRequestID)
            if id == "" || len(id) > 64 {
                id = uuid.NewString()
            }
            c.Set("request_id", id)
            c.Response().Header().Set(echo.HeaderXRequestID, id)
            return next(c)
        }
    }
}
