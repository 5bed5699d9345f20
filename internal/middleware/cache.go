package middleware

import (
    "bytes"
    "context"
    "encoding/json"
    "net/http"
    "net/url"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/rs/zerolog/log"

    "github.com/lorenzaCara/enjoypark/internal/config"
    "github.com/lorenzaCara/enjoypark/internal/datekey"
)

// catalogFilters lists, per list route, the query parameters the catalog
// handlers read.  Anything else in the query string does not change the
// response and is left out of the cache key.
var catalogFilters = map[string][]string{
    "/v1/shows":    {"title", "date", "page", "page_size"},
    "/v1/services": {"type", "bookable"},
}

// cachedResponse is what a catalog entry stores in Redis.
type cachedResponse struct {
    ContentType string          `json:"content_type"`
    Body        json.RawMessage `json:"body"`
}

// bodyRecorder tees the response body so it can be stored after the handler
// has written it.
type bodyRecorder struct {
    http.ResponseWriter
    buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    w.buf.Write(b)
    return w.ResponseWriter.Write(b)
}

// NewCatalogCache caches 200 responses of the public catalog GET routes.
// The key is the catalog resource plus its normalized filters, so
// "?date=2025-06-18T09:00:00Z&utm=x" and "?date=2025-06-18" share an entry.
// "Cache-Control: no-cache" skips the lookup but refreshes the entry.
func NewCatalogCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }
            key := catalogKey(cfg.Prefix, c)
            ctx := c.Request().Context()

            if !strings.Contains(strings.ToLower(c.Request().Header.Get("Cache-Control")), "no-cache") {
                if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                    var hit cachedResponse
                    if json.Unmarshal(bs, &hit) == nil {
                        c.Response().Header().Set("X-Cache", "HIT")
                        return c.Blob(http.StatusOK, hit.ContentType, hit.Body)
                    }
                }
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if c.Response().Status != http.StatusOK || (cfg.MaxBodyBytes > 0 && rec.buf.Len() > cfg.MaxBodyBytes) {
                return nil
            }

            payload, err := json.Marshal(cachedResponse{
                ContentType: c.Response().Header().Get(echo.HeaderContentType),
                Body:        rec.buf.Bytes(),
            })
            if err == nil {
                err = rdb.Set(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err()
            }
            if err != nil {
                log.Warn().Err(err).Str("component", "cache").Str("key", key).Msg("cache store failed")
            }
            return nil
        }
    }
}

// catalogKey builds e.g. "park:cache:shows?date=2025-06-18&page=2" or
// "park:cache:services/7".
func catalogKey(prefix string, c echo.Context) string {
    route := c.Path()
    resource := strings.TrimPrefix(route, "/v1/")
    if id := c.Param("id"); id != "" {
        resource = strings.Replace(resource, ":id", id, 1)
    }

    q := url.Values{}
    for _, name := range catalogFilters[route] {
        v := strings.TrimSpace(c.QueryParam(name))
        switch name {
        case "date":
            v, _ = datekey.ToDateKey(v)
        case "type", "bookable", "title":
            v = strings.ToLower(v)
        }
        if v != "" {
            q.Set(name, v)
        }
    }
    key := prefix + ":" + resource
    if len(q) > 0 {
        key += "?" + q.Encode()
    }
    return key
}
