package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/lorenzaCara/enjoypark/internal/model"
    "github.com/lorenzaCara/enjoypark/internal/planning"
    "github.com/lorenzaCara/enjoypark/internal/service"
)

// PlannerFlow is the planner side of the visitor API (*service.Planner).
type PlannerFlow interface {
    EligibleTickets(ctx context.Context, userID uint64, kind planning.ItemKind, itemID uint64) ([]model.Ticket, error)
    Candidates(ctx context.Context, userID, ticketID uint64) ([]model.Planner, error)
    Apply(ctx context.Context, userID uint64, sel planning.Selection) (model.Planner, planning.Selection, error)
}

// BookingFlow stores service bookings (*service.Bookings).
type BookingFlow interface {
    Book(ctx context.Context, userID uint64, in service.BookingInput) (model.ServiceBooking, error)
}

// TicketReader reads a visitor's tickets (*repository.TicketRepo).
type TicketReader interface {
    service.TicketSource
    GetByIDForUser(ctx context.Context, ticketID, userID uint64) (model.Ticket, error)
}

// PlannerReader reads a visitor's planners (*repository.PlannerRepo).
type PlannerReader interface {
    ListByUser(ctx context.Context, userID uint64) ([]model.Planner, error)
    GetByIDForUser(ctx context.Context, id, userID uint64) (model.Planner, error)
}

// VisitorHandler serves the authenticated visitor endpoints.  Every method
// assumes JWTAuth and RequireRole(VISITOR) ran before it.
type VisitorHandler struct {
    Tickets  TicketReader
    Planners PlannerReader
    Planner  PlannerFlow
    Bookings BookingFlow
}

func NewVisitorHandler(tickets TicketReader, planners PlannerReader, planner PlannerFlow, bookings BookingFlow) *VisitorHandler {
    if tickets == nil || planners == nil || planner == nil || bookings == nil {
        panic("nil dependency passed to NewVisitorHandler")
    }
    return &VisitorHandler{Tickets: tickets, Planners: planners, Planner: planner, Bookings: bookings}
}

// ListTickets handles GET /v1/tickets.
func (h *VisitorHandler) ListTickets(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tickets, err := h.Tickets.ListPurchasedByUser(c.Request().Context(), userID)
    if err != nil {
        return fail(c, err)
    }
    if tickets == nil {
        tickets = []model.Ticket{}
    }
    return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}

// GetTicket handles GET /v1/tickets/:id.
func (h *VisitorHandler) GetTicket(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    t, err := h.Tickets.GetByIDForUser(c.Request().Context(), id, userID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, t)
}

// EligibleTickets returns the handler for GET /v1/<kind>s/:id/eligible-tickets.
func (h *VisitorHandler) EligibleTickets(kind planning.ItemKind) echo.HandlerFunc {
    return func(c echo.Context) error {
        userID, err := getUserID(c)
        if err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        }
        itemID, ok := pathID(c, "id")
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
        }
        tickets, err := h.Planner.EligibleTickets(c.Request().Context(), userID, kind, itemID)
        if err != nil {
            return fail(c, err)
        }
        return c.JSON(http.StatusOK, echo.Map{"items": tickets})
    }
}

// CandidatePlanners handles GET /v1/tickets/:id/planners: the planners an
// item picked with this ticket can be added to.
func (h *VisitorHandler) CandidatePlanners(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    planners, err := h.Planner.Candidates(c.Request().Context(), userID, ticketID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items":            planners,
        "can_add_existing": len(planners) > 0,
    })
}

// ListPlanners handles GET /v1/planners.
func (h *VisitorHandler) ListPlanners(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    planners, err := h.Planners.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return fail(c, err)
    }
    if planners == nil {
        planners = []model.Planner{}
    }
    return c.JSON(http.StatusOK, echo.Map{"items": planners})
}

// GetPlanner handles GET /v1/planners/:id.
func (h *VisitorHandler) GetPlanner(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid planner id"})
    }
    p, err := h.Planners.GetByIDForUser(c.Request().Context(), id, userID)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, p)
}

// AddToPlanner handles POST /v1/planners/items.  The body is the visitor's
// selection; mode "new" creates a planner (201), "existing" extends the one
// named by planner_id (200).  The reset selection is returned so the client
// can offer the same item again.
func (h *VisitorHandler) AddToPlanner(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var sel planning.Selection
    if err := bindValid(c, &sel); err != nil || c.Response().Committed {
        return err
    }
    planner, next, err := h.Planner.Apply(c.Request().Context(), userID, sel)
    if err != nil {
        return fail(c, err)
    }
    status := http.StatusOK
    if sel.Mode == planning.ModeNew {
        status = http.StatusCreated
    }
    return c.JSON(status, echo.Map{"planner": planner, "selection": next})
}
