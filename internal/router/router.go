// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
)

// UseCommon installs the error handler and the middleware every route
// shares.  Image uploads are exempt from the global body limit: the upload
// handler enforces MEDIA_MAX_UPLOAD_MB itself and answers with a field
// error.
func UseCommon(e *echo.Echo, log *zap.Logger, media config.MediaConfig) {
	e.HTTPErrorHandler = handler.HTTPErrorHandler(log)
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimitWithConfig(echomw.BodyLimitConfig{
		Skipper: isImageUpload,
		Limit:   strconv.Itoa(media.MaxUploadMB+1) + "M",
	}))
}

func isImageUpload(c echo.Context) bool {
	return strings.HasSuffix(c.Path(), "/upload-image")
}

// RegisterRoutes registers routes that need no authentication: the health
// check and the uploaded media files.  Trailing slashes are stripped before
// routing so "/movies/" and "/movies" reach the same handler.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, media config.MediaConfig) {
	e.Pre(echomw.RemoveTrailingSlash())
	e.GET("/healthz", handler.Health(db))
	e.Static(media.URLPrefix, media.Root)
}

// RegisterAuth registers the account endpoints under /api/user.  Only /me
// requires an access token; logout inspects the bearer itself.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/api/user", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh) // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.JWTAuth(jwtSecret))
}
