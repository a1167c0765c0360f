package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/services"
)

// ChatHandler handles chat and message requests.
type ChatHandler struct {
	conversations *services.ConversationService
}

func NewChatHandler(conversations *services.ConversationService) *ChatHandler {
	return &ChatHandler{conversations: conversations}
}

// RegisterChatRoutes registers chat routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/chats", h.GetOrCreateChat)
	g.GET("/chats", h.ListChats)
	g.GET("/chats/:id", h.GetChat)
	g.GET("/chats/:id/messages", h.ListMessages)
	g.POST("/chats/:id/messages", h.SendMessage)
	g.POST("/chats/:id/read", h.MarkRead)
}

// GetOrCreateChat answers 201 when the chat was created and 200 when it
// already existed.
func (h *ChatHandler) GetOrCreateChat(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.CreateChatRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	chat, created, err := h.conversations.GetOrCreateChat(c.Request().Context(), uid, req.UserID)
	if err != nil {
		return err
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return ok(c, status, chat)
}

func (h *ChatHandler) ListChats(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	chats, err := h.conversations.ListChats(c.Request().Context(), uid, queryLimit(c))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, chats)
}

func (h *ChatHandler) GetChat(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	chat, err := h.conversations.GetChat(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, chat)
}

// ListMessages returns a page of messages, newest first. Viewing the page
// marks the caller's unread messages on it as read.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	p, err := h.conversations.ListMessages(c.Request().Context(), uid, c.Param("id"), queryLimit(c), c.QueryParam("cursor"))
	if err != nil {
		return err
	}
	return page(c, p)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	var req models.SendMessageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.conversations.SendMessage(c.Request().Context(), uid, c.Param("id"), services.SendMessageInput{
		Kind:     req.Kind,
		Text:     req.Text,
		MediaURL: req.MediaURL,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	uid, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	n, err := h.conversations.MarkChatRead(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, echo.Map{"marked": n})
}
