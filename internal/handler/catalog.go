package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// GenreStore is the persistence used by CatalogHandler for genres.
type GenreStore interface {
	List(ctx context.Context) ([]model.Genre, error)
	Create(ctx context.Context, g *model.Genre) error
}

// ActorStore is the persistence used by CatalogHandler for actors.
type ActorStore interface {
	List(ctx context.Context) ([]model.Actor, error)
	Create(ctx context.Context, a *model.Actor) error
}

// CinemaHallStore is the persistence used by CatalogHandler for halls.
type CinemaHallStore interface {
	List(ctx context.Context) ([]model.CinemaHall, error)
	GetByID(ctx context.Context, id uint64) (*model.CinemaHall, error)
	Create(ctx context.Context, h *model.CinemaHall) error
}

// CatalogHandler serves the simple reference resources: genres, actors
// and cinema halls.
type CatalogHandler struct {
	Genres GenreStore
	Actors ActorStore
	Halls  CinemaHallStore
	Log    *zap.Logger
}

func NewCatalogHandler(g GenreStore, a ActorStore, h CinemaHallStore, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Genres: g, Actors: a, Halls: h, Log: log}
}

type genreReq struct {
	Name string `json:"name" form:"name" validate:"required,max=255"`
}

type actorReq struct {
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=255"`
}

type cinemaHallReq struct {
	Name       string `json:"name" form:"name" validate:"required,max=255"`
	Rows       uint32 `json:"rows" form:"rows" validate:"required,gt=0"`
	SeatsInRow uint32 `json:"seats_in_row" form:"seats_in_row" validate:"required,gt=0"`
}

type genreOut struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type actorOut struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

type cinemaHallOut struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Rows       uint32 `json:"rows"`
	SeatsInRow uint32 `json:"seats_in_row"`
	Capacity   uint32 `json:"capacity"`
}

func genreFrom(g model.Genre) genreOut { return genreOut{ID: g.ID, Name: g.Name} }

func actorFrom(a model.Actor) actorOut {
	return actorOut{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName, FullName: a.FullName()}
}

func cinemaHallFrom(h model.CinemaHall) cinemaHallOut {
	return cinemaHallOut{ID: h.ID, Name: h.Name, Rows: h.Rows, SeatsInRow: h.SeatsInRow, Capacity: h.Capacity()}
}

// ListGenres handles GET /api/cinema/genres.
func (h *CatalogHandler) ListGenres(c echo.Context) error {
	genres, err := h.Genres.List(c.Request().Context())
	if err != nil {
		h.Log.Error("list genres", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]genreOut, 0, len(genres))
	for _, g := range genres {
		out = append(out, genreFrom(g))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateGenre handles POST /api/cinema/genres.  Names are unique.
func (h *CatalogHandler) CreateGenre(c echo.Context) error {
	var req genreReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	g := model.Genre{Name: strings.TrimSpace(req.Name)}
	if err := h.Genres.Create(c.Request().Context(), &g); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "genre with this name already exists",
				"fields": map[string]string{"name": "unique"},
			})
		}
		h.Log.Error("create genre", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create failed")
	}
	return c.JSON(http.StatusCreated, genreFrom(g))
}

// ListActors handles GET /api/cinema/actors.
func (h *CatalogHandler) ListActors(c echo.Context) error {
	actors, err := h.Actors.List(c.Request().Context())
	if err != nil {
		h.Log.Error("list actors", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]actorOut, 0, len(actors))
	for _, a := range actors {
		out = append(out, actorFrom(a))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateActor handles POST /api/cinema/actors.
func (h *CatalogHandler) CreateActor(c echo.Context) error {
	var req actorReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	a := model.Actor{FirstName: strings.TrimSpace(req.FirstName), LastName: strings.TrimSpace(req.LastName)}
	if err := h.Actors.Create(c.Request().Context(), &a); err != nil {
		h.Log.Error("create actor", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create failed")
	}
	return c.JSON(http.StatusCreated, actorFrom(a))
}

// ListCinemaHalls handles GET /api/cinema/cinema-halls.
func (h *CatalogHandler) ListCinemaHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		h.Log.Error("list cinema halls", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]cinemaHallOut, 0, len(halls))
	for _, hall := range halls {
		out = append(out, cinemaHallFrom(hall))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateCinemaHall handles POST /api/cinema/cinema-halls.
func (h *CatalogHandler) CreateCinemaHall(c echo.Context) error {
	var req cinemaHallReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	hall := model.CinemaHall{Name: strings.TrimSpace(req.Name), Rows: req.Rows, SeatsInRow: req.SeatsInRow}
	if err := h.Halls.Create(c.Request().Context(), &hall); err != nil {
		h.Log.Error("create cinema hall", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create failed")
	}
	return c.JSON(http.StatusCreated, cinemaHallFrom(hall))
}
