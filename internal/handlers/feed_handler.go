package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/pagination"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	posts *services.PostService
}

func NewFeedHandler(posts *services.PostService) *FeedHandler {
	return &FeedHandler{posts: posts}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns posts by the caller and followed users, each with its
// author and the caller's like state.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	p, err := h.posts.Feed(ctx, uid, queryLimit(c), c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	return pageOfViews(c, p, h.posts.Views(ctx, uid, p.Items))
}

// pageOfViews swaps the items of a post page for their decorated views.
func pageOfViews(c echo.Context, p pagination.Page[models.Post], views []services.PostView) error {
	return page(c, pagination.Page[services.PostView]{
		Items:      views,
		HasMore:    p.HasMore,
		NextCursor: p.NextCursor,
		PageSize:   p.PageSize,
	})
}
