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
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/middleware"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

func newAuthServer() (*echo.Echo, *mockUserStore, *mockTokenStore) {
	us, ts := &mockUserStore{}, &mockTokenStore{}
	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 5, RefreshTTLDays: 1, BcryptCost: bcrypt.MinCost}
	h := NewAuthHandler(cfg, us, ts, zap.NewNop())
	e := echo.New()
	g := e.Group("/api/user")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/refresh-access", h.RefreshAccess)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me, middleware.JWTAuth(testSecret))
	return e, us, ts
}

func TestRegister(t *testing.T) {
	e, us, ts := newAuthServer()
	us.On("Create", mock.Anything, "neo@example.com", "password1", false, bcrypt.MinCost).Return(uint64(3), nil).Once()
	ts.On("StoreRefresh", mock.Anything, uint64(3), mock.AnythingOfType("string"), mock.Anything).Return(nil).Once()

	rec := call(t, e, http.MethodPost, "/api/user/register", "",
		map[string]string{"email": "Neo@Example.com", "password": "password1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResp
	decode(t, rec, &resp)
	assert.Equal(t, userPart{ID: 3, Email: "neo@example.com"}, resp.User)
	claims, err := utils.ParseAccessToken(testSecret, resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotEmpty(t, resp.Refresh.Token)
	us.AssertExpectations(t)
	ts.AssertExpectations(t)
}

func TestRegisterErrors(t *testing.T) {
	e, us, _ := newAuthServer()
	us.On("Create", mock.Anything, "neo@example.com", mock.Anything, false, mock.Anything).Return(uint64(0), repository.ErrEmailExists)

	rec := call(t, e, http.MethodPost, "/api/user/register", "",
		map[string]string{"email": "neo@example.com", "password": "password1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/user/register", "",
		map[string]string{"email": "not-an-email", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"email"`)
	assert.Contains(t, rec.Body.String(), `"password":"min"`)
}

func TestLogin(t *testing.T) {
	e, us, ts := newAuthServer()
	hash, err := utils.HashPassword("password1", bcrypt.MinCost)
	require.NoError(t, err)
	us.On("GetByEmail", mock.Anything, "admin@example.com").
		Return(model.User{ID: 1, Email: "admin@example.com", PasswordHash: hash, IsStaff: true, IsActive: true}, nil)
	us.On("GetByEmail", mock.Anything, "gone@example.com").
		Return(model.User{ID: 2, PasswordHash: hash, IsActive: false}, nil)
	us.On("GetByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repository.ErrNotFound)
	ts.On("StoreRefresh", mock.Anything, uint64(1), mock.Anything, mock.Anything).Return(nil)

	rec := call(t, e, http.MethodPost, "/api/user/login", "",
		map[string]string{"email": "admin@example.com", "password": "password1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp authResp
	decode(t, rec, &resp)
	assert.True(t, resp.User.IsStaff)
	claims, err := utils.ParseAccessToken(testSecret, resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	for _, body := range []map[string]string{
		{"email": "admin@example.com", "password": "wrong-password"},
		{"email": "gone@example.com", "password": "password1"},
		{"email": "nobody@example.com", "password": "password1"},
	} {
		rec := call(t, e, http.MethodPost, "/api/user/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, body["email"])
	}
}

func TestRefreshRotates(t *testing.T) {
	e, us, ts := newAuthServer()
	hash := utils.HashRefreshRaw("raw-refresh")
	ts.On("ValidateRefresh", mock.Anything, hash).Return(uint64(4), nil)
	ts.On("RevokeByHash", mock.Anything, hash).Return(nil).Once()
	ts.On("StoreRefresh", mock.Anything, uint64(4), mock.Anything, mock.Anything).Return(nil).Once()
	us.On("GetByID", mock.Anything, uint64(4)).Return(model.User{ID: 4, Email: "u@example.com", IsActive: true}, nil)

	rec := call(t, e, http.MethodPost, "/api/user/refresh", "", map[string]string{"refresh_token": "raw-refresh"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp authResp
	decode(t, rec, &resp)
	assert.NotEqual(t, "raw-refresh", resp.Refresh.Token)
	ts.AssertExpectations(t)

	rec = call(t, e, http.MethodPost, "/api/user/refresh-access", "", map[string]string{"refresh_token": "raw-refresh"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access"`)
	assert.NotContains(t, rec.Body.String(), `"refresh"`)
}

func TestRefreshInvalid(t *testing.T) {
	e, _, ts := newAuthServer()
	ts.On("ValidateRefresh", mock.Anything, mock.Anything).Return(uint64(0), repository.ErrNotFound)

	rec := call(t, e, http.MethodPost, "/api/user/refresh", "", map[string]string{"refresh_token": "stale"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/user/refresh", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogout(t *testing.T) {
	e, _, ts := newAuthServer()
	hash := utils.HashRefreshRaw("one-session")
	ts.On("ValidateRefresh", mock.Anything, hash).Return(uint64(4), nil)
	ts.On("RevokeByHash", mock.Anything, hash).Return(nil).Once()
	ts.On("RevokeAllForUser", mock.Anything, uint64(2)).Return(nil).Once()

	rec := call(t, e, http.MethodPost, "/api/user/logout", "", map[string]string{"refresh_token": "one-session"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/user/logout", userToken(t), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = call(t, e, http.MethodPost, "/api/user/logout", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ts.AssertExpectations(t)
}

func TestMe(t *testing.T) {
	e, us, _ := newAuthServer()
	us.On("GetByID", mock.Anything, uint64(2)).Return(model.User{ID: 2, Email: "u@example.com", IsActive: true}, nil)
	us.On("GetByID", mock.Anything, uint64(9)).Return(model.User{}, errors.New("db down"))

	rec := call(t, e, http.MethodGet, "/api/user/me", userToken(t), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"email":"u@example.com","is_staff":false}`, rec.Body.String())

	rec = call(t, e, http.MethodGet, "/api/user/me", tokenFor(t, 9, model.RoleUser), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = call(t, e, http.MethodGet, "/api/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
