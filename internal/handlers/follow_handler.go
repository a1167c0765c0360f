package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	follows *services.FollowService
}

func NewFollowHandler(follows *services.FollowService) *FollowHandler {
	return &FollowHandler{follows: follows}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.FollowUser)
	g.DELETE("/users/:id/follow", h.UnfollowUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

func (h *FollowHandler) FollowUser(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	if err := h.follows.Follow(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"following": true})
}

func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	if err := h.follows.Unfollow(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"following": false})
}

func (h *FollowHandler) GetFollowers(c echo.Context) error {
	users, err := h.follows.Followers(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, users)
}

func (h *FollowHandler) GetFollowing(c echo.Context) error {
	users, err := h.follows.Following(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, users)
}
