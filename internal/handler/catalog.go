package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/lorenzaCara/enjoypark/internal/datekey"
    "github.com/lorenzaCara/enjoypark/internal/model"
    "github.com/lorenzaCara/enjoypark/internal/repository"
)

// CatalogReader is the read side of the park catalog (*repository.CatalogRepo).
type CatalogReader interface {
    ListAttractions(ctx context.Context) ([]model.Attraction, error)
    GetAttraction(ctx context.Context, id uint64) (model.Attraction, error)
    ListShows(ctx context.Context, q repository.ShowQuery) ([]model.Show, int64, error)
    GetShow(ctx context.Context, id uint64) (model.Show, error)
    ListServices(ctx context.Context, typ string) ([]model.Service, error)
    GetService(ctx context.Context, id uint64) (model.Service, error)
}

// CatalogHandler serves the public browse endpoints.  Responses are cached
// in Redis by the router, so handlers stay plain reads.
type CatalogHandler struct {
    Catalog CatalogReader
}

func NewCatalogHandler(catalog CatalogReader) *CatalogHandler {
    if catalog == nil {
        panic("nil catalog passed to NewCatalogHandler")
    }
    return &CatalogHandler{Catalog: catalog}
}

// ListAttractions handles GET /v1/attractions.
func (h *CatalogHandler) ListAttractions(c echo.Context) error {
    items, err := h.Catalog.ListAttractions(c.Request().Context())
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetAttraction handles GET /v1/attractions/:id.
func (h *CatalogHandler) GetAttraction(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    a, err := h.Catalog.GetAttraction(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, a)
}

// ListShows handles GET /v1/shows?title=&date=&page=&page_size=.  date
// accepts any value with a leading YYYY-MM-DD.
func (h *CatalogHandler) ListShows(c echo.Context) error {
    q := repository.ShowQuery{Title: strings.TrimSpace(c.QueryParam("title"))}
    if raw := strings.TrimSpace(c.QueryParam("date")); raw != "" {
        if _, ok := datekey.ToDisplayDate(raw, nil); !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
        }
        q.Date, _ = datekey.ToDateKey(raw)
    }

    page, _ := strconv.Atoi(c.QueryParam("page"))
    if page < 1 { page = 1 }
    ps, _ := strconv.Atoi(c.QueryParam("page_size"))
    if ps < 1 { ps = 20 }
    if ps > 100 { ps = 100 }
    q.Page, q.PageSize = page, ps

    items, total, err := h.Catalog.ListShows(c.Request().Context(), q)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "data":      items,
        "total":     total,
        "page":      page,
        "page_size": ps,
    })
}

// GetShow handles GET /v1/shows/:id.
func (h *CatalogHandler) GetShow(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    s, err := h.Catalog.GetShow(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, s)
}

// ListServices handles GET /v1/services?type=restaurant&bookable=true.  Each
// item carries a "bookable" flag so clients know whether to show the
// booking form; bookable=true|false filters on it.
func (h *CatalogHandler) ListServices(c echo.Context) error {
    var only *bool
    if raw := strings.TrimSpace(c.QueryParam("bookable")); raw != "" {
        b, err := strconv.ParseBool(raw)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bookable"})
        }
        only = &b
    }
    items, err := h.Catalog.ListServices(c.Request().Context(), strings.TrimSpace(c.QueryParam("type")))
    if err != nil {
        return fail(c, err)
    }
    out := make([]serviceView, 0, len(items))
    for _, s := range items {
        v := serviceView{Service: s, Bookable: s.Type.Bookable()}
        if only != nil && *only != v.Bookable {
            continue
        }
        out = append(out, v)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetService handles GET /v1/services/:id.
func (h *CatalogHandler) GetService(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    s, err := h.Catalog.GetService(c.Request().Context(), id)
    if err != nil {
        return fail(c, err)
    }
    return c.JSON(http.StatusOK, serviceView{Service: s, Bookable: s.Type.Bookable()})
}

type serviceView struct {
    model.Service
    Bookable bool `json:"bookable"`
}
