package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
)

func newCatalogServer() (*echo.Echo, *mockGenreStore, *mockActorStore, *mockHallStore) {
	gs, as, hs := &mockGenreStore{}, &mockActorStore{}, &mockHallStore{}
	h := NewCatalogHandler(gs, as, hs, zap.NewNop())
	e, g, admin := newTestEcho()
	g.GET("/genres", h.ListGenres)
	g.POST("/genres", h.CreateGenre, admin)
	g.GET("/actors", h.ListActors)
	g.POST("/actors", h.CreateActor, admin)
	g.GET("/cinema-halls", h.ListCinemaHalls)
	g.POST("/cinema-halls", h.CreateCinemaHall, admin)
	return e, gs, as, hs
}

func TestGenreCreate(t *testing.T) {
	e, gs, _, _ := newCatalogServer()
	gs.On("Create", mock.Anything, mock.MatchedBy(func(g *model.Genre) bool { return g.Name == "Drama" })).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Genre).ID = 5 }).
		Return(nil).Once()

	rec := call(t, e, http.MethodPost, "/api/cinema/genres/", adminToken(t), map[string]string{"name": " Drama "})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":5,"name":"Drama"}`, rec.Body.String())
	gs.AssertExpectations(t)
}

func TestGenreCreateDuplicate(t *testing.T) {
	e, gs, _, _ := newCatalogServer()
	gs.On("Create", mock.Anything, mock.Anything).Return(repository.ErrConflict).Once()

	rec := call(t, e, http.MethodPost, "/api/cinema/genres", adminToken(t), map[string]string{"name": "Drama"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"unique"`)
}

func TestGenreCreateForbiddenAndInvalid(t *testing.T) {
	e, gs, _, _ := newCatalogServer()

	rec := call(t, e, http.MethodPost, "/api/cinema/genres", userToken(t), map[string]string{"name": "Drama"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/cinema/genres", adminToken(t), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"required"`)
	gs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestActorListFullName(t *testing.T) {
	e, _, as, _ := newCatalogServer()
	as.On("List", mock.Anything).Return([]model.Actor{{ID: 1, FirstName: "Tom", LastName: "Hardy"}}, nil)

	rec := call(t, e, http.MethodGet, "/api/cinema/actors", userToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"first_name":"Tom","last_name":"Hardy","full_name":"Tom Hardy"}]`, rec.Body.String())
}

func TestCinemaHallListAndCreate(t *testing.T) {
	e, _, _, hs := newCatalogServer()
	hs.On("List", mock.Anything).Return([]model.CinemaHall{{ID: 1, Name: "Blue", Rows: 10, SeatsInRow: 12}}, nil)
	hs.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := call(t, e, http.MethodGet, "/api/cinema/cinema-halls", userToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Blue","rows":10,"seats_in_row":12,"capacity":120}]`, rec.Body.String())

	rec = call(t, e, http.MethodPost, "/api/cinema/cinema-halls", adminToken(t),
		map[string]any{"name": "Red", "rows": 0, "seats_in_row": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows"`)

	rec = call(t, e, http.MethodPost, "/api/cinema/cinema-halls", adminToken(t),
		map[string]any{"name": "Red", "rows": 4, "seats_in_row": 5})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"capacity":20`)
}

func TestCatalogListError(t *testing.T) {
	e, gs, _, _ := newCatalogServer()
	gs.On("List", mock.Anything).Return([]model.Genre(nil), errors.New("boom"))

	rec := call(t, e, http.MethodGet, "/api/cinema/genres", userToken(t), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
