package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking/internal/handler"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
)

// CinemaHandlers groups the handlers mounted under /api/cinema.
type CinemaHandlers struct {
	Catalog  *handler.CatalogHandler
	Movies   *handler.MovieHandler
	Sessions *handler.MovieSessionHandler
	Orders   *handler.OrderHandler
}

// RegisterCinema registers the cinema API.  Every route requires a valid
// access token; catalog writes additionally require the ADMIN role.  The
// genre, actor and hall lists go through the response cache, and writes to
// those routes drop their cached entries.
func RegisterCinema(e *echo.Echo, h CinemaHandlers, jwtSecret string, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/api/cinema", middleware.JWTAuth(jwtSecret), limit)
	admin := middleware.RequireRole(model.RoleAdmin)

	// ---- Genres / actors / halls ----
	g.GET("/genres", h.Catalog.ListGenres, cache)
	g.POST("/genres", h.Catalog.CreateGenre, admin, cache)
	g.GET("/actors", h.Catalog.ListActors, cache)
	g.POST("/actors", h.Catalog.CreateActor, admin, cache)
	g.GET("/cinema-halls", h.Catalog.ListCinemaHalls, cache)
	g.POST("/cinema-halls", h.Catalog.CreateCinemaHall, admin, cache)

	// ---- Movies ----
	g.GET("/movies", h.Movies.List)
	g.POST("/movies", h.Movies.Create, admin)
	g.GET("/movies/:id", h.Movies.Retrieve)
	g.POST("/movies/:id/upload-image", h.Movies.UploadImage, admin)

	// ---- Movie sessions ----
	g.GET("/movie-sessions", h.Sessions.List)
	g.POST("/movie-sessions", h.Sessions.Create, admin)
	g.GET("/movie-sessions/:id", h.Sessions.Retrieve)
	g.PUT("/movie-sessions/:id", h.Sessions.Update, admin)
	g.DELETE("/movie-sessions/:id", h.Sessions.Delete, admin)

	// ---- Orders (any authenticated user, own orders only) ----
	g.GET("/orders", h.Orders.List)
	g.POST("/orders", h.Orders.Create)
}
