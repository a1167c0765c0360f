package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// MediaHandler accepts multipart uploads.
type MediaHandler struct {
	media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{media: media}
}

func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group, m ...echo.MiddlewareFunc) {
	g.POST("/media", h.Upload, m...)
}

// Upload stores the "file" form field and returns its URL.
func (h *MediaHandler) Upload(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "file is required", err)
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "Unreadable upload", err)
	}
	defer f.Close()

	url, err := h.media.Upload(c.Request().Context(), uid, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, echo.Map{"url": url})
}
