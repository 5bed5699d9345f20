package handler

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/suite"

    "github.com/lorenzaCara/enjoypark/internal/middleware"
    "github.com/lorenzaCara/enjoypark/internal/model"
    "github.com/lorenzaCara/enjoypark/internal/planning"
    "github.com/lorenzaCara/enjoypark/internal/repository"
    "github.com/lorenzaCara/enjoypark/internal/service"
    "github.com/lorenzaCara/enjoypark/internal/utils"
)

const jwtSecret = "handler-test"

type fakeCatalog struct {
    shows     []model.Show
    lastQuery repository.ShowQuery
    err       error
}

func (f *fakeCatalog) ListAttractions(context.Context) ([]model.Attraction, error) {
    return []model.Attraction{{ID: 3, Name: "Dragon Coaster"}}, f.err
}

func (f *fakeCatalog) GetAttraction(_ context.Context, id uint64) (model.Attraction, error) {
    if id != 3 {
        return model.Attraction{}, repository.ErrAttractionNotFound
    }
    return model.Attraction{ID: 3, Name: "Dragon Coaster"}, nil
}

func (f *fakeCatalog) ListShows(_ context.Context, q repository.ShowQuery) ([]model.Show, int64, error) {
    f.lastQuery = q
    return f.shows, int64(len(f.shows)), f.err
}

func (f *fakeCatalog) GetShow(_ context.Context, id uint64) (model.Show, error) {
    return model.Show{}, repository.ErrShowNotFound
}

func (f *fakeCatalog) ListServices(_ context.Context, typ string) ([]model.Service, error) {
    return []model.Service{
        {ID: 11, Name: "Lakeside Bistro", Type: model.ServiceRestaurant},
        {ID: 12, Name: "Info Point", Type: model.ServiceInfo},
    }, f.err
}

func (f *fakeCatalog) GetService(_ context.Context, id uint64) (model.Service, error) {
    return model.Service{ID: id, Name: "Lakeside Bistro", Type: model.ServiceRestaurant}, nil
}

type fakeVisitor struct {
    tickets  []model.Ticket
    planners []model.Planner
    err      error

    gotUser  uint64
    gotKind  planning.ItemKind
    gotSel   planning.Selection
    gotInput service.BookingInput
}

func (f *fakeVisitor) ListPurchasedByUser(_ context.Context, userID uint64) ([]model.Ticket, error) {
    f.gotUser = userID
    return f.tickets, f.err
}

func (f *fakeVisitor) ListByUser(_ context.Context, userID uint64) ([]model.Planner, error) {
    f.gotUser = userID
    return f.planners, f.err
}

func (f *fakeVisitor) GetByIDForUser(_ context.Context, id, userID uint64) (model.Ticket, error) {
    f.gotUser = userID
    for _, t := range f.tickets {
        if t.ID == id {
            return t, nil
        }
    }
    return model.Ticket{}, repository.ErrTicketNotFound
}

// fakePlanners is split from fakeVisitor because both readers have a
// GetByIDForUser method.
type fakePlanners struct{ v *fakeVisitor }

func (f fakePlanners) ListByUser(ctx context.Context, userID uint64) ([]model.Planner, error) {
    return f.v.ListByUser(ctx, userID)
}

func (f fakePlanners) GetByIDForUser(_ context.Context, id, userID uint64) (model.Planner, error) {
    for _, p := range f.v.planners {
        if p.ID == id && p.UserID == userID {
            return p, nil
        }
    }
    return model.Planner{}, repository.ErrPlannerNotFound
}

func (f *fakeVisitor) EligibleTickets(_ context.Context, userID uint64, kind planning.ItemKind, _ uint64) ([]model.Ticket, error) {
    f.gotUser, f.gotKind = userID, kind
    return f.tickets, f.err
}

func (f *fakeVisitor) Candidates(_ context.Context, userID, _ uint64) ([]model.Planner, error) {
    f.gotUser = userID
    return f.planners, f.err
}

func (f *fakeVisitor) Apply(_ context.Context, userID uint64, sel planning.Selection) (model.Planner, planning.Selection, error) {
    f.gotUser, f.gotSel = userID, sel
    if f.err != nil {
        return model.Planner{}, sel, f.err
    }
    return model.Planner{ID: 100, TicketID: *sel.TicketID, UserID: userID, Date: "2025-06-18"}, sel.Reset(), nil
}

func (f *fakeVisitor) Book(_ context.Context, userID uint64, in service.BookingInput) (model.ServiceBooking, error) {
    f.gotUser, f.gotInput = userID, in
    if f.err != nil {
        return model.ServiceBooking{}, f.err
    }
    return model.ServiceBooking{ID: 500, ServiceID: in.ServiceID, BookingTime: "2025-06-18T12:30:00Z", NumberOfPeople: 2, Status: model.BookingConfirmed}, nil
}

type HandlerSuite struct {
    suite.Suite
    e       *echo.Echo
    catalog *fakeCatalog
    visitor *fakeVisitor
    token   string
}

func TestHandlerSuite(t *testing.T) {
    suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
    s.catalog = &fakeCatalog{}
    s.visitor = &fakeVisitor{}

    s.e = echo.New()
    s.e.Validator = NewValidator()
    ch := NewCatalogHandler(s.catalog)
    s.e.GET("/v1/attractions", ch.ListAttractions)
    s.e.GET("/v1/attractions/:id", ch.GetAttraction)
    s.e.GET("/v1/shows", ch.ListShows)
    s.e.GET("/v1/shows/:id", ch.GetShow)
    s.e.GET("/v1/services", ch.ListServices)
    s.e.GET("/v1/services/:id", ch.GetService)
    s.e.GET("/healthz", Health(nil))

    vh := NewVisitorHandler(s.visitor, fakePlanners{s.visitor}, s.visitor, s.visitor)
    g := s.e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleVisitor))
    g.GET("/tickets", vh.ListTickets)
    g.GET("/tickets/:id", vh.GetTicket)
    g.GET("/planners/:id", vh.GetPlanner)
    g.GET("/shows/:id/eligible-tickets", vh.EligibleTickets(planning.KindShow))
    g.GET("/tickets/:id/planners", vh.CandidatePlanners)
    g.GET("/planners", vh.ListPlanners)
    g.POST("/planners/items", vh.AddToPlanner)
    g.POST("/services/:id/bookings", vh.BookService)

    tok, err := utils.NewAccessToken(jwtSecret, 9, middleware.RoleVisitor, 5)
    s.Require().NoError(err)
    s.token = tok.Token
}

func (s *HandlerSuite) do(method, target, body string, auth bool) (*httptest.ResponseRecorder, map[string]any) {
    var req *http.Request
    if body != "" {
        req = httptest.NewRequest(method, target, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    } else {
        req = httptest.NewRequest(method, target, nil)
    }
    if auth {
        req.Header.Set("Authorization", "Bearer "+s.token)
    }
    rec := httptest.NewRecorder()
    s.e.ServeHTTP(rec, req)
    out := map[string]any{}
    _ = json.Unmarshal(rec.Body.Bytes(), &out)
    return rec, out
}

func (s *HandlerSuite) TestHealth() {
    rec, out := s.do(http.MethodGet, "/healthz", "", false)
    s.Equal(http.StatusOK, rec.Code)
    s.Equal("ok", out["status"])
}

func (s *HandlerSuite) TestCatalogIsPublic() {
    rec, out := s.do(http.MethodGet, "/v1/attractions", "", false)
    s.Equal(http.StatusOK, rec.Code)
    s.Len(out["items"], 1)

    rec, _ = s.do(http.MethodGet, "/v1/attractions/4", "", false)
    s.Equal(http.StatusNotFound, rec.Code)

    rec, _ = s.do(http.MethodGet, "/v1/attractions/abc", "", false)
    s.Equal(http.StatusBadRequest, rec.Code)

    rec, _ = s.do(http.MethodGet, "/v1/shows/8", "", false)
    s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestListShowsQuery() {
    s.catalog.shows = []model.Show{{ID: 7, Title: "Night Parade", Date: "2025-06-18"}}
    rec, out := s.do(http.MethodGet, "/v1/shows?date=2025-06-18T10:00:00Z&page_size=500&title=%20parade", "", false)
    s.Equal(http.StatusOK, rec.Code)
    s.Equal(float64(1), out["total"])
    s.Equal(repository.ShowQuery{Title: "parade", Date: "2025-06-18", Page: 1, PageSize: 100}, s.catalog.lastQuery)

    rec, _ = s.do(http.MethodGet, "/v1/shows?date=tomorrow", "", false)
    s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestListServicesMarksBookable() {
    rec, out := s.do(http.MethodGet, "/v1/services", "", false)
    s.Equal(http.StatusOK, rec.Code)
    items := out["items"].([]any)
    s.Equal(true, items[0].(map[string]any)["bookable"])
    s.Equal(false, items[1].(map[string]any)["bookable"])
}

func (s *HandlerSuite) TestListServicesBookableFilter() {
    rec, out := s.do(http.MethodGet, "/v1/services?bookable=true", "", false)
    s.Equal(http.StatusOK, rec.Code)
    items := out["items"].([]any)
    s.Require().Len(items, 1)
    s.Equal("Lakeside Bistro", items[0].(map[string]any)["name"])

    rec, _ = s.do(http.MethodGet, "/v1/services?bookable=maybe", "", false)
    s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestCatalogDatabaseError() {
    s.catalog.err = errors.New("connection refused")
    rec, out := s.do(http.MethodGet, "/v1/attractions", "", false)
    s.Equal(http.StatusInternalServerError, rec.Code)
    s.Equal("internal error", out["error"])
}

func (s *HandlerSuite) TestVisitorRoutesNeedToken() {
    rec, _ := s.do(http.MethodGet, "/v1/tickets", "", false)
    s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestListTicketsEmpty() {
    rec, _ := s.do(http.MethodGet, "/v1/tickets", "", true)
    s.Equal(http.StatusOK, rec.Code)
    s.JSONEq(`{"items":[]}`, rec.Body.String())
    s.Equal(uint64(9), s.visitor.gotUser)
}

func (s *HandlerSuite) TestGetTicketAndPlanner() {
    s.visitor.tickets = []model.Ticket{{ID: 1, UserID: 9, Status: model.TicketActive, ValidFor: "2025-06-18T00:00:00Z"}}
    s.visitor.planners = []model.Planner{{ID: 40, TicketID: 1, UserID: 9, Date: "2025-06-18"}}

    rec, out := s.do(http.MethodGet, "/v1/tickets/1", "", true)
    s.Equal(http.StatusOK, rec.Code)
    s.Equal("ACTIVE", out["status"])

    rec, _ = s.do(http.MethodGet, "/v1/tickets/2", "", true)
    s.Equal(http.StatusNotFound, rec.Code)

    rec, out = s.do(http.MethodGet, "/v1/planners/40", "", true)
    s.Equal(http.StatusOK, rec.Code)
    s.Equal("2025-06-18", out["date"])

    rec, _ = s.do(http.MethodGet, "/v1/planners/41", "", true)
    s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestEligibleTickets() {
    s.visitor.tickets = []model.Ticket{{ID: 1, UserID: 9, Status: model.TicketActive, ValidFor: "2025-06-18T00:00:00Z"}}
    rec, out := s.do(http.MethodGet, "/v1/shows/7/eligible-tickets", "", true)
    s.Equal(http.StatusOK, rec.Code)
    s.Len(out["items"], 1)
    s.Equal(planning.KindShow, s.visitor.gotKind)
}

func (s *HandlerSuite) TestCandidatePlanners() {
    rec, out := s.do(http.MethodGet, "/v1/tickets/1/planners", "", true)
    s.Equal(http.StatusOK, rec.Code)
    s.Equal(false, out["can_add_existing"])

    s.visitor.planners = []model.Planner{{ID: 40, TicketID: 1, Date: "2025-06-18"}}
    _, out = s.do(http.MethodGet, "/v1/tickets/1/planners", "", true)
    s.Equal(true, out["can_add_existing"])

    s.visitor.err = fmt.Errorf("wrapped: %w", service.ErrTicketNotFound)
    rec, _ = s.do(http.MethodGet, "/v1/tickets/1/planners", "", true)
    s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestAddToPlannerCreates() {
    rec, out := s.do(http.MethodPost, "/v1/planners/items", `{"kind":"show","item_id":7,"ticket_id":1,"mode":"new","title":"Evening"}`, true)
    s.Equal(http.StatusCreated, rec.Code)
    s.Equal("Evening", s.visitor.gotSel.Title)
    sel := out["selection"].(map[string]any)
    s.Equal("new", sel["mode"])
    s.NotContains(sel, "ticket_id")
}

func (s *HandlerSuite) TestAddToPlannerValidation() {
    rec, out := s.do(http.MethodPost, "/v1/planners/items", `{"kind":"parking","item_id":7,"mode":"new"}`, true)
    s.Equal(http.StatusBadRequest, rec.Code)
    s.Equal("validation failed", out["error"])
    s.Equal(uint64(0), s.visitor.gotUser)

    rec, _ = s.do(http.MethodPost, "/v1/planners/items", `{not json`, true)
    s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestAddToPlannerErrorStatuses() {
    cases := map[error]int{
        planning.ErrNoTicketSelected:      http.StatusBadRequest,
        planning.ErrPlannerNotFound:       http.StatusNotFound,
        planning.ErrDuplicateItem:         http.StatusConflict,
        repository.ErrConflict:            http.StatusConflict,
        planning.ErrPlannerTicketMismatch: http.StatusUnprocessableEntity,
        repository.ErrForbidden:           http.StatusForbidden,
    }
    for err, want := range cases {
        s.visitor.err = fmt.Errorf("apply: %w", err)
        rec, _ := s.do(http.MethodPost, "/v1/planners/items", `{"kind":"show","item_id":7,"ticket_id":1,"mode":"existing","planner_id":40}`, true)
        s.Equal(want, rec.Code, err.Error())
    }
}

func (s *HandlerSuite) TestBookService() {
    rec, out := s.do(http.MethodPost, "/v1/services/11/bookings", `{"ticket_id":1,"date":"2025-06-18","time":"12:30","add_to_planner":true}`, true)
    s.Equal(http.StatusCreated, rec.Code)
    s.Equal("CONFIRMED", out["status"])
    s.Equal(uint64(11), s.visitor.gotInput.ServiceID)
    s.True(s.visitor.gotInput.AddToPlanner)
    s.Require().NotNil(s.visitor.gotInput.TicketID)
    s.Equal(uint64(1), *s.visitor.gotInput.TicketID)
}

func (s *HandlerSuite) TestBookServiceRejections() {
    rec, _ := s.do(http.MethodPost, "/v1/services/11/bookings", `{"date":"2025-06-18"}`, true)
    s.Equal(http.StatusBadRequest, rec.Code)

    for err, want := range map[error]int{
        planning.ErrDateInPast:         http.StatusUnprocessableEntity,
        planning.ErrTicketDateMismatch: http.StatusUnprocessableEntity,
        planning.ErrServiceNotBookable: http.StatusUnprocessableEntity,
        planning.ErrInvalidSchedule:    http.StatusBadRequest,
        repository.ErrServiceNotFound:  http.StatusNotFound,
    } {
        s.visitor.err = err
        rec, out := s.do(http.MethodPost, "/v1/services/11/bookings", `{"date":"2025-06-18","time":"12:30"}`, true)
        s.Equal(want, rec.Code, err.Error())
        s.Contains(out["error"], err.Error())
    }
}
