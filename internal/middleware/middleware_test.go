package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/lorenzaCara/enjoypark/internal/config"
    "github.com/lorenzaCara/enjoypark/internal/utils"
)

const secret = "test-secret"

// serve runs h behind mws and returns the recorder.
func serve(t *testing.T, req *http.Request, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    e.GET("/v1/things/:id", h, mws...)
    e.POST("/v1/things/:id", h, mws...)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func whoami(c echo.Context) error {
    id, ok := UserID(c)
    if !ok {
        return c.NoContent(http.StatusTeapot)
    }
    return c.JSON(http.StatusOK, echo.Map{"user_id": id, "role": c.Get(ctxRole)})
}

func bearer(t *testing.T, uid uint64, role string) string {
    t.Helper()
    tok, err := utils.NewAccessToken(secret, uid, role, 5)
    require.NoError(t, err)
    return "Bearer " + tok.Token
}

func TestJWTAuthAcceptsVisitor(t *testing.T) {
    req := httptest.NewRequest(http.MethodGet, "/v1/things/1", nil)
    req.Header.Set("Authorization", bearer(t, 42, RoleVisitor))
    rec := serve(t, req, whoami, JWTAuth(secret), RequireRole(RoleVisitor))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.JSONEq(t, `{"user_id":42,"role":"VISITOR"}`, rec.Body.String())
}

func TestJWTAuthNumericSubject(t *testing.T) {
    tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 7, "role": RoleVisitor, "exp": 4102444800})
    raw, err := tok.SignedString([]byte(secret))
    require.NoError(t, err)
    req := httptest.NewRequest(http.MethodGet, "/v1/things/1", nil)
    req.Header.Set("Authorization", "Bearer "+raw)
    rec := serve(t, req, whoami, JWTAuth(secret))
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestJWTAuthRejects(t *testing.T) {
    expired, err := utils.NewAccessToken(secret, 42, RoleVisitor, -5)
    require.NoError(t, err)
    otherKey, err := utils.NewAccessToken("other", 42, RoleVisitor, 5)
    require.NoError(t, err)
    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).SignedString([]byte(secret))
    require.NoError(t, err)
    badSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "exp": 4102444800}).SignedString([]byte(secret))
    require.NoError(t, err)

    for name, header := range map[string]string{
        "missing":   "",
        "basic":     "Basic Zm9vOmJhcg==",
        "expired":   "Bearer " + expired.Token,
        "wrong key": "Bearer " + otherKey.Token,
        "no exp":    "Bearer " + noExp,
        "bad sub":   "Bearer " + badSub,
    } {
        t.Run(name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, "/v1/things/1", nil)
            if header != "" {
                req.Header.Set("Authorization", header)
            }
            rec := serve(t, req, whoami, JWTAuth(secret))
            assert.Equal(t, http.StatusUnauthorized, rec.Code)
        })
    }
}

func TestRequireRoleForbidsOthers(t *testing.T) {
    req := httptest.NewRequest(http.MethodGet, "/v1/things/1", nil)
    req.Header.Set("Authorization", bearer(t, 42, "OPERATOR"))
    rec := serve(t, req, whoami, JWTAuth(secret), RequireRole(RoleVisitor))
    assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRedisBackedMiddlewarePassThroughWithoutRedis(t *testing.T) {
    ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
    mws := []echo.MiddlewareFunc{
        NewTokenBucket(config.RateLimitConfig{Enabled: true, Browse: config.Budget{Burst: 1, Window: time.Hour}}, nil),
        NewCatalogCache(config.CacheConfig{Enabled: true}, nil),
        NewIdempotency(config.IdempotencyConfig{Enabled: true}, nil),
    }
    for i := 0; i < 3; i++ {
        req := httptest.NewRequest(http.MethodPost, "/v1/things/1", nil)
        req.Header.Set(IdempotencyHeader, "same")
        rec := serve(t, req, ok, mws...)
        assert.Equal(t, http.StatusOK, rec.Code)
    }
}

func TestRequestID(t *testing.T) {
    h := func(c echo.Context) error { return c.String(http.StatusOK, c.Get("request_id").(string)) }

    req := httptest.NewRequest(http.MethodGet, "/v1/things/1", nil)
    rec := serve(t, req, h, RequestID())
    generated := rec.Header().Get(echo.HeaderXRequestID)
    assert.Len(t, generated, 36)
    assert.Equal(t, generated, rec.Body.String())

    req = httptest.NewRequest(http.MethodGet, "/v1/things/1", nil)
    req.Header.Set(echo.HeaderXRequestID, "abc-123")
    rec = serve(t, req, h, RequestID())
    assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}

func TestAccessLogKeepsStatus(t *testing.T) {
    req := httptest.NewRequest(http.MethodGet, "/v1/things/1", nil)
    rec := serve(t, req, func(c echo.Context) error { return echo.ErrNotFound }, AccessLog())
    assert.Equal(t, http.StatusNotFound, rec.Code)
}
