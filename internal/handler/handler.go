// Package handler exposes the HTTP handlers of the park planner API: public
// catalog browsing and the visitor flows (eligible tickets, planners,
// service bookings).
package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog/log"

    "github.com/lorenzaCara/enjoypark/internal/middleware"
    "github.com/lorenzaCara/enjoypark/internal/planning"
    "github.com/lorenzaCara/enjoypark/internal/repository"
    "github.com/lorenzaCara/enjoypark/internal/service"
)

var errNoUser = errors.New("invalid user_id in context")

// getUserID returns the authenticated visitor set by middleware.JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
    if id, ok := middleware.UserID(c); ok {
        return id, nil
    }
    return 0, errNoUser
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

type requestValidator struct {
    v *validator.Validate
}

// NewValidator returns the echo.Validator used for request bodies.
func NewValidator() echo.Validator {
    return &requestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (r *requestValidator) Validate(i interface{}) error {
    return r.v.Struct(i)
}

// bindValid binds the body into dst and runs the validator on it.
func bindValid(c echo.Context, dst interface{}) error {
    if err := c.Bind(dst); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if err := c.Validate(dst); err != nil {
        var verrs validator.ValidationErrors
        if errors.As(err, &verrs) {
            fields := make([]string, 0, len(verrs))
            for _, fe := range verrs {
                fields = append(fields, fe.Field()+" failed "+fe.Tag())
            }
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
        }
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return nil
}

// statusOf maps domain and repository errors to HTTP status codes.
func statusOf(err error) int {
    switch {
    case errors.Is(err, planning.ErrNoTicketSelected),
        errors.Is(err, planning.ErrNoPlannerChosen),
        errors.Is(err, planning.ErrUnknownKind),
        errors.Is(err, planning.ErrUnknownMode),
        errors.Is(err, planning.ErrMissingSchedule),
        errors.Is(err, planning.ErrInvalidSchedule):
        return http.StatusBadRequest
    case errors.Is(err, repository.ErrForbidden):
        return http.StatusForbidden
    case errors.Is(err, service.ErrTicketNotFound),
        errors.Is(err, planning.ErrPlannerNotFound),
        errors.Is(err, repository.ErrTicketNotFound),
        errors.Is(err, repository.ErrPlannerNotFound),
        errors.Is(err, repository.ErrAttractionNotFound),
        errors.Is(err, repository.ErrShowNotFound),
        errors.Is(err, repository.ErrServiceNotFound):
        return http.StatusNotFound
    case errors.Is(err, planning.ErrDuplicateItem),
        errors.Is(err, repository.ErrConflict):
        return http.StatusConflict
    case errors.Is(err, planning.ErrPlannerTicketMismatch),
        errors.Is(err, planning.ErrTicketDateMismatch),
        errors.Is(err, planning.ErrDateInPast),
        errors.Is(err, planning.ErrServiceNotBookable),
        errors.Is(err, planning.ErrTicketNotEligible):
        return http.StatusUnprocessableEntity
    case errors.Is(err, service.ErrPlannerUnavailable):
        return http.StatusServiceUnavailable
    }
    return http.StatusInternalServerError
}

// fail writes err as {"error": ...}.  Internal errors are logged and not
// echoed to the client.
func fail(c echo.Context, err error) error {
    status := statusOf(err)
    if status >= http.StatusInternalServerError {
        rid, _ := c.Get("request_id").(string)
        log.Error().Err(err).Str("component", "handler").Str("request_id", rid).Str("route", c.Path()).Msg("request failed")
        if status == http.StatusInternalServerError {
            return c.JSON(status, echo.Map{"error": "internal error"})
        }
    }
    return c.JSON(status, echo.Map{"error": err.Error()})
}
