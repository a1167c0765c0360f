package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// UserHandler handles profile and push-token requests.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterProfileRoutes registers profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.POST("/users/me", h.CreateProfile)
	g.GET("/users/me", h.GetProfile)
	g.PUT("/users/me", h.UpdateProfile)
	g.GET("/users/:id", h.GetUser)
	g.POST("/users/me/push-tokens", h.RegisterPushToken)
	g.DELETE("/users/me/push-tokens", h.UnregisterPushToken)
}

func (h *UserHandler) CreateProfile(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.CreateProfile(c.Request().Context(), uid, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, user)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

// GetUser returns another user's profile by id.
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.users.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateProfile(c.Request().Context(), uid, req.ToUpdate())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

func (h *UserHandler) RegisterPushToken(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.PushTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.users.RegisterPushToken(c.Request().Context(), uid, req.Token); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"registered": true})
}

func (h *UserHandler) UnregisterPushToken(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.PushTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.users.UnregisterPushToken(c.Request().Context(), uid, req.Token); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"registered": false})
}
