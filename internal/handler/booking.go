package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/lorenzaCara/enjoypark/internal/planning"
    "github.com/lorenzaCara/enjoypark/internal/service"
)

// bookingRequest is the body of POST /v1/services/:id/bookings.  date is
// "YYYY-MM-DD" and time "HH:MM" in park-local wall clock.
type bookingRequest struct {
    TicketID        *uint64       `json:"ticket_id" validate:"omitempty,gt=0"`
    Date            string        `json:"date" validate:"required"`
    Time            string        `json:"time" validate:"required"`
    PartySize       int           `json:"party_size"`
    SpecialRequests string        `json:"special_requests" validate:"max=500"`
    AddToPlanner    bool          `json:"add_to_planner"`
    PlannerMode     planning.Mode `json:"planner_mode" validate:"omitempty,oneof=new existing"`
    PlannerID       *uint64       `json:"planner_id" validate:"omitempty,gt=0"`
}

// BookService handles POST /v1/services/:id/bookings and answers 201 with
// the stored booking.
func (h *VisitorHandler) BookService(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    serviceID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
    }
    var body bookingRequest
    if err := bindValid(c, &body); err != nil || c.Response().Committed {
        return err
    }
    b, err := h.Bookings.Book(c.Request().Context(), userID, service.BookingInput{
        ServiceID:       serviceID,
        TicketID:        body.TicketID,
        Date:            body.Date,
        Time:            body.Time,
        PartyCount:      body.PartySize,
        SpecialRequests: body.SpecialRequests,
        AddToPlanner:    body.AddToPlanner,
        PlannerMode:     body.PlannerMode,
        PlannerID:       body.PlannerID,
    })
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusCreated, b)
}
