package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	dispatcher *services.NotificationDispatcher
}

func NewNotificationHandler(dispatcher *services.NotificationDispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.POST("/notifications/read", h.MarkRead)
}

// GetNotifications returns the caller's notifications, newest first.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	p, err := h.dispatcher.List(c.Request().Context(), uid, queryLimit(c), c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	return page(c, p)
}

func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	count, err := h.dispatcher.UnreadCount(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"count": count})
}

// MarkRead marks the listed notifications read, or all of them when the
// body has no ids. Ids owned by someone else are ignored.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.MarkNotificationsReadRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}
	n, err := h.dispatcher.MarkRead(c.Request().Context(), uid, req.IDs)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"marked": n})
}
