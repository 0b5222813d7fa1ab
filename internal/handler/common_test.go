package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		raw  string
		want []uint64
	}{
		{"", nil},
		{"1", []uint64{1}},
		{"1,2,3", []uint64{1, 2, 3}},
		{" 4 , 5 ", []uint64{4, 5}},
		{"2,2,1,2", []uint64{2, 1}},
		{"a,b,,", nil},
		{"0,-3,7", []uint64{7}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseIDList(tt.raw), "raw=%q", tt.raw)
	}
}

func TestMediaURL(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "api.local:8080"
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Nil(t, mediaURL(c, testMedia, ""))

	u := mediaURL(c, testMedia, "uploads/movies/a.png")
	require.NotNil(t, u)
	assert.Equal(t, "http://testserver/media/uploads/movies/a.png", *u)

	noBase := testMedia
	noBase.BaseURL = ""
	u = mediaURL(c, noBase, "/uploads/movies/a.png")
	require.NotNil(t, u)
	assert.Equal(t, "http://api.local:8080/media/uploads/movies/a.png", *u)
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := getUserID(c)
	assert.Error(t, err)

	c.Set("user_id", uint64(12))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health(nil))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = HTTPErrorHandler(zap.NewNop())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1K"))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.POST("/echo", func(c echo.Context) error {
		_, err := io.ReadAll(c.Request().Body)
		return err
	})
	e.GET("/panic", func(c echo.Context) error { panic("boom") })

	tests := []struct {
		method, target string
		body           string
		status         int
		want           string
	}{
		{http.MethodGet, "/nope", "", http.StatusNotFound, `{"error":"not found"}`},
		{http.MethodPost, "/ok", "", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
		{http.MethodGet, "/panic", "", http.StatusInternalServerError, `{"error":"internal server error"}`},
		{http.MethodPost, "/echo", strings.Repeat("x", 4<<10), http.StatusRequestEntityTooLarge, `{"error":"request entity too large"}`},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}
