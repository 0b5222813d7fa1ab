package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
)

func newCachedEcho(t *testing.T) (*echo.Echo, *int, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{http.MethodGet: true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
	calls := 0
	e := echo.New()
	g := e.Group("", NewRedisCache(cfg, rdb, zap.NewNop()))
	g.GET("/genres", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	})
	g.POST("/genres", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})
	return e, &calls, mr
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRedisCacheHitAndMiss(t *testing.T) {
	e, calls, _ := newCachedEcho(t)

	first := do(e, http.MethodGet, "/genres")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := do(e, http.MethodGet, "/genres")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls)

	other := do(e, http.MethodGet, "/genres?x=1")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, *calls)
}

func TestRedisCacheInvalidatesOnWrite(t *testing.T) {
	e, calls, mr := newCachedEcho(t)

	do(e, http.MethodGet, "/genres")
	do(e, http.MethodGet, "/genres?x=1")
	assert.Len(t, mr.Keys(), 2)

	rec := do(e, http.MethodPost, "/genres")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, mr.Keys())

	rec = do(e, http.MethodGet, "/genres")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.JSONEq(t, fmt.Sprintf(`{"calls":%d}`, *calls), rec.Body.String())
}

func TestRedisCacheDisabledWithoutClient(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true}, nil, zap.NewNop())
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.String(http.StatusOK, "x") }, mw)

	rec := do(e, http.MethodGet, "/x")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCachePayloadRoundTrip(t *testing.T) {
	h := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, h, []byte(`[]`))
	require.NoError(t, err)

	status, hdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, "[]", string(body))

	_, _, _, ok = decodePayload([]byte{1, 2})
	assert.False(t, ok)
}
