package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	posts *services.PostService
}

func NewCommentHandler(posts *services.PostService) *CommentHandler {
	return &CommentHandler{posts: posts}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
}

func (h *CommentHandler) CreateComment(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreateCommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	comment, err := h.posts.AddComment(c.Request().Context(), uid, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, comment)
}

// GetComments pages over a post's comments, newest first.
func (h *CommentHandler) GetComments(c echo.Context) error {
	p, err := h.posts.ListComments(c.Request().Context(), c.Param("id"), queryLimit(c), c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	return page(c, p)
}
