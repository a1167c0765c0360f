package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
}

func (h *PostHandler) CreatePost(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreatePostRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	post, err := h.posts.CreatePost(c.Request().Context(), uid, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, post)
}

func (h *PostHandler) GetPost(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	post, err := h.posts.GetPost(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, h.posts.Views(ctx, uid, []models.Post{*post})[0])
}

func (h *PostHandler) DeletePost(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	if err := h.posts.DeletePost(c.Request().Context(), uid, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUserPosts pages over one author's posts.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	p, err := h.posts.ListUserPosts(ctx, c.Param("id"), queryLimit(c), c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	return pageOfViews(c, p, h.posts.Views(ctx, uid, p.Items))
}
