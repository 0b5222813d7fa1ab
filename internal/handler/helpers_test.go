package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

const testSecret = "handler-test-secret"

var testMedia = config.MediaConfig{
	Root:        "media",
	URLPrefix:   "/media",
	BaseURL:     "http://testserver",
	MaxUploadMB: 1,
}

// newTestEcho returns an Echo with trailing-slash stripping and a JWT
// protected group mounted at /api/cinema.
func newTestEcho() (*echo.Echo, *echo.Group, echo.MiddlewareFunc) {
	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	g := e.Group("/api/cinema", middleware.JWTAuth(testSecret))
	return e, g, middleware.RequireRole(model.RoleAdmin)
}

func tokenFor(t *testing.T, uid uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, uid, role, 5)
	require.NoError(t, err)
	return tok.Token
}

func userToken(t *testing.T) string  { return tokenFor(t, 2, model.RoleUser) }
func adminToken(t *testing.T) string { return tokenFor(t, 1, model.RoleAdmin) }

// call sends body (JSON-encoded unless it is an io.Reader) and returns the
// recorder.
func call(t *testing.T, e *echo.Echo, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	contentType := echo.MIMEApplicationJSON
	switch b := body.(type) {
	case nil:
	case io.Reader:
		rd = b
	default:
		bs, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(bs)
	}
	req := httptest.NewRequest(method, target, rd)
	if rd != nil {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// callMultipart posts a multipart form.  files maps field name to content.
func callMultipart(t *testing.T, e *echo.Echo, target, token string, fields url.Values, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, vals := range fields {
		for _, v := range vals {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for k, data := range files {
		fw, err := w.CreateFormFile(k, k+".bin")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}
