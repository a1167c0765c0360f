package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	posts *services.PostService
}

func NewLikeHandler(posts *services.PostService) *LikeHandler {
	return &LikeHandler{posts: posts}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.LikePost)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
}

func (h *LikeHandler) LikePost(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	if err := h.posts.LikePost(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"liked": true})
}

func (h *LikeHandler) UnlikePost(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	if err := h.posts.UnlikePost(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"liked": false})
}
