package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pulsechat/internal/app"
	"pulsechat/internal/store"
	"pulsechat/internal/transport/http/response"
)

type MessageHandler struct {
	chatService *app.ChatService
}

// PostMessageRequest accepts both body variants: {username, text} for free
// text authorship and {user_id, text} for a registered author.
type PostMessageRequest struct {
	Username string `json:"username"`
	UserID   uint   `json:"user_id"`
	Text     string `json:"text"`
}

func NewMessageHandler(chatService *app.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

func (h *MessageHandler) List(c *gin.Context) {
	var sinceID uint
	if raw := c.Query("since"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		sinceID = uint(parsed)
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), sinceID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list messages failed")
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) Post(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	message, err := h.chatService.PostMessage(c.Request.Context(), app.PostMessageInput{
		Username: req.Username,
		UserID:   req.UserID,
		Text:     req.Text,
	})
	if err != nil {
		var validationErr *store.ValidationError
		switch {
		case errors.As(err, &validationErr):
			response.Error(c, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, app.ErrUnknownUser):
			response.Error(c, http.StatusUnauthorized, "unknown user")
		default:
			response.Error(c, http.StatusInternalServerError, "send message failed")
		}
		return
	}

	c.JSON(http.StatusCreated, message)
}

// bindErrorMessage keeps the field-specific type errors the API has always
// returned for mistyped payloads.
func bindErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		switch typeErr.Field {
		case "username":
			return "Username must be a string"
		case "text":
			return "Message text must be a string"
		case "user_id":
			return "user_id must be an integer"
		}
	}
	return "invalid request payload"
}
