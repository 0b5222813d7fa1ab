package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// MovieStore is the persistence used by MovieHandler.
type MovieStore interface {
	List(ctx context.Context, f model.MovieFilter) ([]model.Movie, error)
	GetByID(ctx context.Context, id uint64) (*model.Movie, error)
	Create(ctx context.Context, m *model.Movie, genreIDs, actorIDs []uint64) error
	SetImage(ctx context.Context, id uint64, path string) error
}

// FileStore keeps uploaded files under the media root.
type FileStore interface {
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// MovieHandler serves /api/cinema/movies.
type MovieHandler struct {
	Movies MovieStore
	Files  FileStore
	Media  config.MediaConfig
	Log    *zap.Logger
}

func NewMovieHandler(movies MovieStore, files FileStore, media config.MediaConfig, log *zap.Logger) *MovieHandler {
	return &MovieHandler{Movies: movies, Files: files, Media: media, Log: log}
}

// createMovieReq accepts JSON, urlencoded and multipart bodies.  File parts
// are not bound, so an image sent with the create request is ignored.
type createMovieReq struct {
	Title       string   `json:"title" form:"title" validate:"required,max=255"`
	Description string   `json:"description" form:"description" validate:"required"`
	Duration    uint32   `json:"duration" form:"duration" validate:"required,gt=0"`
	Genres      []uint64 `json:"genres" form:"genres" validate:"omitempty,dive,gt=0"`
	Actors      []uint64 `json:"actors" form:"actors" validate:"omitempty,dive,gt=0"`
}

type actorRef struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
}

type movieSummary struct {
	ID       uint64     `json:"id"`
	Title    string     `json:"title"`
	Duration uint32     `json:"duration"`
	Genres   []genreOut `json:"genres"`
	Actors   []actorRef `json:"actors"`
	Image    *string    `json:"image"`
}

type movieDetail struct {
	movieSummary
	Description string `json:"description"`
}

func movieSummaryFrom(c echo.Context, media config.MediaConfig, m model.Movie) movieSummary {
	out := movieSummary{
		ID:       m.ID,
		Title:    m.Title,
		Duration: m.Duration,
		Genres:   make([]genreOut, 0, len(m.Genres)),
		Actors:   make([]actorRef, 0, len(m.Actors)),
	}
	for _, g := range m.Genres {
		out.Genres = append(out.Genres, genreFrom(g))
	}
	for _, a := range m.Actors {
		out.Actors = append(out.Actors, actorRef{ID: a.ID, FullName: a.FullName()})
	}
	if m.Image.Valid {
		out.Image = mediaURL(c, media, m.Image.String)
	}
	return out
}

func movieDetailFrom(c echo.Context, media config.MediaConfig, m model.Movie) movieDetail {
	return movieDetail{movieSummary: movieSummaryFrom(c, media, m), Description: m.Description}
}

// List handles GET /api/cinema/movies.  Supported filters: title
// (case-insensitive substring), genres and actors (comma-separated ids,
// match any).  Filters combine with AND.
func (h *MovieHandler) List(c echo.Context) error {
	f := model.MovieFilter{
		Title:    strings.TrimSpace(c.QueryParam("title")),
		GenreIDs: parseIDList(c.QueryParam("genres")),
		ActorIDs: parseIDList(c.QueryParam("actors")),
	}
	movies, err := h.Movies.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("list movies", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]movieSummary, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieSummaryFrom(c, h.Media, m))
	}
	return c.JSON(http.StatusOK, out)
}

// Retrieve handles GET /api/cinema/movies/:id.
func (h *MovieHandler) Retrieve(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "not found")
		}
		h.Log.Error("get movie", zap.Uint64("movie_id", id), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, movieDetailFrom(c, h.Media, *m))
}

// Create handles POST /api/cinema/movies.  The movie and its genre and
// actor links are written together; unknown ids reject the whole request.
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation failed",
			"fields": map[string]string{"title": "required"},
		})
	}

	m := model.Movie{Title: title, Description: req.Description, Duration: req.Duration}
	genreIDs, actorIDs := uniqueIDs(req.Genres), uniqueIDs(req.Actors)
	ctx := c.Request().Context()
	if err := h.Movies.Create(ctx, &m, genreIDs, actorIDs); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return errorJSON(c, http.StatusBadRequest, err.Error())
		}
		h.Log.Error("create movie", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create failed")
	}

	created, err := h.Movies.GetByID(ctx, m.ID)
	if err != nil {
		h.Log.Error("reload movie", zap.Uint64("movie_id", m.ID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	h.Log.Info("movie created", zap.Uint64("movie_id", m.ID), zap.String("title", m.Title))
	return c.JSON(http.StatusCreated, movieDetailFrom(c, h.Media, *created))
}
