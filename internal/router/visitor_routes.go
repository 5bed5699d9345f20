package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lorenzaCara/enjoypark/internal/config"
	"github.com/lorenzaCara/enjoypark/internal/handler"
	"github.com/lorenzaCara/enjoypark/internal/middleware"
	"github.com/lorenzaCara/enjoypark/internal/planning"
)

// RegisterVisitor registers visitor-scoped endpoints under /v1.  All routes
// require a valid JWT and the VISITOR role.  The two writes additionally
// honour an Idempotency-Key header so a double click stores one planner
// item or booking.
func RegisterVisitor(e *echo.Echo, h *handler.VisitorHandler, jwtSecret string, rdb *redis.Client) {
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleVisitor),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	}
	write := append(auth[:len(auth):len(auth)], middleware.NewIdempotency(config.LoadIdempotencyConfig(), rdb))

	g := e.Group("/v1")
	g.GET("/tickets", h.ListTickets, auth...)
	g.GET("/tickets/:id", h.GetTicket, auth...)
	g.GET("/tickets/:id/planners", h.CandidatePlanners, auth...)
	g.GET("/attractions/:id/eligible-tickets", h.EligibleTickets(planning.KindAttraction), auth...)
	g.GET("/shows/:id/eligible-tickets", h.EligibleTickets(planning.KindShow), auth...)
	g.GET("/services/:id/eligible-tickets", h.EligibleTickets(planning.KindService), auth...)

	g.GET("/planners", h.ListPlanners, auth...)
	g.GET("/planners/:id", h.GetPlanner, auth...)
	g.POST("/planners/items", h.AddToPlanner, write...)
	g.POST("/services/:id/bookings", h.BookService, write...)
}
