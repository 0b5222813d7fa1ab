package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/config"
	"github.com/iliyamo/cinema-booking/internal/model"
	"github.com/iliyamo/cinema-booking/internal/repository"
	"github.com/iliyamo/cinema-booking/internal/utils"
)

// UserStore is the user persistence used by AuthHandler.
type UserStore interface {
	Create(ctx context.Context, email, password string, isStaff bool, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore is the refresh token persistence used by AuthHandler.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
	Log    *zap.Logger
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore, log *zap.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Log: log}
}

// ----- DTOs -----

type credentialsReq struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

type loginReq struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID      uint64 `json:"id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func userFrom(u model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, IsStaff: u.IsStaff}
}

// issuePair signs an access token and stores a fresh refresh token.
func (h *AuthHandler) issuePair(ctx context.Context, u model.User) (authResp, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role(), h.Cfg.AccessTTLMin)
	if err != nil {
		return authResp{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return authResp{}, err
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return authResp{}, err
	}
	return authResp{
		User:    userFrom(u),
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
	}, nil
}

// Register creates a regular (non-staff) user and returns tokens
// immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, email, req.Password, false, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return errorJSON(c, http.StatusConflict, "email already exists")
		}
		h.Log.Error("create user", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "create user failed")
	}

	resp, err := h.issuePair(ctx, model.User{ID: uid, Email: email})
	if err != nil {
		h.Log.Error("issue tokens", zap.Uint64("user_id", uid), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "issue tokens failed")
	}
	h.Log.Info("user registered", zap.Uint64("user_id", uid))
	return c.JSON(http.StatusCreated, resp)
}

// Login verifies credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
		}
		h.Log.Error("load user", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens", zap.Uint64("user_id", u.ID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// activeRefreshUser resolves a refresh token to its active user.
func (h *AuthHandler) activeRefreshUser(ctx context.Context, hash string) (model.User, error) {
	userID, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return model.User{}, err
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	if !u.IsActive {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

// Refresh validates a refresh token by hash, revokes it and issues a new
// pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return errorJSON(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.activeRefreshUser(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid refresh")
		}
		h.Log.Error("validate refresh", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		h.Log.Error("revoke refresh", zap.Uint64("user_id", u.ID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "revoke failed")
	}

	resp, err := h.issuePair(ctx, u)
	if err != nil {
		h.Log.Error("issue tokens", zap.Uint64("user_id", u.ID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "issue tokens failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return errorJSON(c, http.StatusBadRequest, "refresh_token required")
	}
	hash := utils.HashRefreshRaw(strings.TrimSpace(req.RefreshToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.activeRefreshUser(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid refresh")
		}
		h.Log.Error("validate refresh", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role(), h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Error("issue access", zap.Uint64("user_id", u.ID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "issue access failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the refresh token given in the body, or every refresh
// token of the bearer when the body carries none.
func (h *AuthHandler) Logout(c echo.Context) error {
	var uid uint64
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))); err == nil {
			uid, _ = claims.UserID()
		}
	}

	// A malformed body just leaves the token empty.
	var req refreshReq
	_ = c.Bind(&req)
	refreshToken := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch {
	case refreshToken != "":
		hash := utils.HashRefreshRaw(refreshToken)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return errorJSON(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			h.Log.Error("revoke refresh", zap.Error(err))
			return errorJSON(c, http.StatusInternalServerError, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	case uid != 0:
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			h.Log.Error("revoke all refresh", zap.Uint64("user_id", uid), zap.Error(err))
			return errorJSON(c, http.StatusInternalServerError, "logout failed")
		}
		return c.NoContent(http.StatusNoContent)
	}
	return errorJSON(c, http.StatusBadRequest, "provide Authorization header or refresh_token")
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return errorJSON(c, http.StatusUnauthorized, "unauthorized")
	}
	u, err := h.Users.GetByID(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "unauthorized")
		}
		h.Log.Error("load user", zap.Uint64("user_id", uid), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, userFrom(u))
}
