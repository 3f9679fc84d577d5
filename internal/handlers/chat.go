package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/genmesh/meshstore/internal/auth"
	"github.com/genmesh/meshstore/internal/chat"
)

type ChatHandler struct {
	Chat *chat.Service
	Auth *auth.Service
}

type chatRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message" validate:"required"`
}

func (h *ChatHandler) Send(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "message is required"})
	}

	reply, chatID, err := h.Chat.Send(req.ChatID, req.Message, h.Auth.Current() != nil)
	if errors.Is(err, chat.ErrQuotaExceeded) {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":        err.Error(),
			"prompts_left": 0,
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "chat failed, please try again"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"chat_id":      chatID,
		"reply":        reply,
		"prompts_left": h.Chat.PromptsLeft(),
	})
}

func (h *ChatHandler) History(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Chat.History(c.Param("id")))
}

func (h *ChatHandler) Chats(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"chats":        h.Chat.ChatIDs(),
		"prompts_left": h.Chat.PromptsLeft(),
	})
}
