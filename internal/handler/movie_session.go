package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

// MovieSessionStore is the persistence used by MovieSessionHandler.
type MovieSessionStore interface {
	List(ctx context.Context, f model.MovieSessionFilter) ([]model.MovieSessionRow, error)
	GetByID(ctx context.Context, id uint64) (*model.MovieSession, error)
	TakenPlaces(ctx context.Context, id uint64) ([]model.Place, error)
	Create(ctx context.Context, s *model.MovieSession) error
	Update(ctx context.Context, s *model.MovieSession) error
	Delete(ctx context.Context, id uint64) error
}

// MovieSessionHandler serves /api/cinema/movie-sessions.
type MovieSessionHandler struct {
	Sessions MovieSessionStore
	Movies   MovieStore
	Halls    CinemaHallStore
	Media    config.MediaConfig
	Log      *zap.Logger
}

func NewMovieSessionHandler(s MovieSessionStore, m MovieStore, h CinemaHallStore, media config.MediaConfig, log *zap.Logger) *MovieSessionHandler {
	return &MovieSessionHandler{Sessions: s, Movies: m, Halls: h, Media: media, Log: log}
}

type movieSessionReq struct {
	ShowTime   time.Time `json:"show_time" form:"show_time" validate:"required"`
	Movie      uint64    `json:"movie" form:"movie" validate:"required,gt=0"`
	CinemaHall uint64    `json:"cinema_hall" form:"cinema_hall" validate:"required,gt=0"`
}

type movieSessionListOut struct {
	ID                 uint64    `json:"id"`
	ShowTime           time.Time `json:"show_time"`
	MovieTitle         string    `json:"movie_title"`
	MovieImage         *string   `json:"movie_image"`
	CinemaHallName     string    `json:"cinema_hall_name"`
	CinemaHallCapacity uint32    `json:"cinema_hall_capacity"`
	TicketsAvailable   uint32    `json:"tickets_available"`
}

type placeOut struct {
	Row  uint32 `json:"row"`
	Seat uint32 `json:"seat"`
}

type movieSessionDetailOut struct {
	ID          uint64        `json:"id"`
	ShowTime    time.Time     `json:"show_time"`
	Movie       movieSummary  `json:"movie"`
	CinemaHall  cinemaHallOut `json:"cinema_hall"`
	TakenPlaces []placeOut    `json:"taken_places"`
}

type movieSessionOut struct {
	ID         uint64    `json:"id"`
	ShowTime   time.Time `json:"show_time"`
	Movie      uint64    `json:"movie"`
	CinemaHall uint64    `json:"cinema_hall"`
}

func movieSessionFrom(s model.MovieSession) movieSessionOut {
	return movieSessionOut{ID: s.ID, ShowTime: s.ShowTime.UTC(), Movie: s.MovieID, CinemaHall: s.CinemaHallID}
}

// List handles GET /api/cinema/movie-sessions?date=YYYY-MM-DD&movie=<id>.
func (h *MovieSessionHandler) List(c echo.Context) error {
	var f model.MovieSessionFilter
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "date must be YYYY-MM-DD",
				"fields": map[string]string{"date": "datetime"},
			})
		}
		f.Date = &d
	}
	if raw := c.QueryParam("movie"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			f.MovieID = id
		}
	}

	rows, err := h.Sessions.List(c.Request().Context(), f)
	if err != nil {
		h.Log.Error("list movie sessions", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	out := make([]movieSessionListOut, 0, len(rows))
	for _, r := range rows {
		item := movieSessionListOut{
			ID:                 r.ID,
			ShowTime:           r.ShowTime.UTC(),
			MovieTitle:         r.MovieTitle,
			CinemaHallName:     r.HallName,
			CinemaHallCapacity: r.HallRows * r.HallSeats,
			TicketsAvailable:   r.TicketsAvailable(),
		}
		if r.MovieImage != nil {
			item.MovieImage = mediaURL(c, h.Media, *r.MovieImage)
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}

// Retrieve handles GET /api/cinema/movie-sessions/:id.
func (h *MovieSessionHandler) Retrieve(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	ctx := c.Request().Context()
	s, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		return h.lookupError(c, id, err)
	}
	movie, err := h.Movies.GetByID(ctx, s.MovieID)
	if err != nil {
		return h.lookupError(c, id, err)
	}
	hall, err := h.Halls.GetByID(ctx, s.CinemaHallID)
	if err != nil {
		return h.lookupError(c, id, err)
	}
	places, err := h.Sessions.TakenPlaces(ctx, id)
	if err != nil {
		return h.lookupError(c, id, err)
	}

	out := movieSessionDetailOut{
		ID:          s.ID,
		ShowTime:    s.ShowTime.UTC(),
		Movie:       movieSummaryFrom(c, h.Media, *movie),
		CinemaHall:  cinemaHallFrom(*hall),
		TakenPlaces: make([]placeOut, 0, len(places)),
	}
	for _, p := range places {
		out.TakenPlaces = append(out.TakenPlaces, placeOut{Row: p.Row, Seat: p.Seat})
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/cinema/movie-sessions.
func (h *MovieSessionHandler) Create(c echo.Context) error {
	var req movieSessionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	s := model.MovieSession{ShowTime: req.ShowTime.UTC(), MovieID: req.Movie, CinemaHallID: req.CinemaHall}
	if err := h.Sessions.Create(c.Request().Context(), &s); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, movieSessionFrom(s))
}

// Update handles PUT /api/cinema/movie-sessions/:id.
func (h *MovieSessionHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	var req movieSessionReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.Sessions.GetByID(ctx, id); err != nil {
		return h.lookupError(c, id, err)
	}
	s := model.MovieSession{ID: id, ShowTime: req.ShowTime.UTC(), MovieID: req.Movie, CinemaHallID: req.CinemaHall}
	if err := h.Sessions.Update(ctx, &s); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, movieSessionFrom(s))
}

// Delete handles DELETE /api/cinema/movie-sessions/:id.  Sessions with
// sold tickets cannot be removed.
func (h *MovieSessionHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	if err := h.Sessions.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return errorJSON(c, http.StatusNotFound, "not found")
		case errors.Is(err, repository.ErrConflict):
			return errorJSON(c, http.StatusConflict, "movie session has tickets")
		}
		h.Log.Error("delete movie session", zap.Uint64("session_id", id), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "delete failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MovieSessionHandler) lookupError(c echo.Context, id uint64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "not found")
	}
	h.Log.Error("get movie session", zap.Uint64("session_id", id), zap.Error(err))
	return errorJSON(c, http.StatusInternalServerError, "query failed")
}

func (h *MovieSessionHandler) writeError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrInvalidReference) {
		return errorJSON(c, http.StatusBadRequest, "unknown movie or cinema hall")
	}
	h.Log.Error("write movie session", zap.Error(err))
	return errorJSON(c, http.StatusInternalServerError, "write failed")
}
