package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lorenzaCara/enjoypark/internal/config"
	"github.com/lorenzaCara/enjoypark/internal/handler"
	"github.com/lorenzaCara/enjoypark/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication and
// sit outside the /v1 API.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterPublic registers the catalog browse endpoints.  They are rate
// limited and their responses are cached in Redis; both degrade to
// pass-through when rdb is nil.  Middleware is attached per route: a
// group-level Use would claim every unknown /v1 path for this group.
func RegisterPublic(e *echo.Echo, h *handler.CatalogHandler, rdb *redis.Client) {
	mw := []echo.MiddlewareFunc{
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewCatalogCache(config.LoadCacheConfig(), rdb),
	}
	g := e.Group("/v1")
	g.GET("/attractions", h.ListAttractions, mw...)
	g.GET("/attractions/:id", h.GetAttraction, mw...)
	g.GET("/shows", h.ListShows, mw...)
	g.GET("/shows/:id", h.GetShow, mw...)
	g.GET("/services", h.ListServices, mw...)
	g.GET("/services/:id", h.GetService, mw...)
}
