package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulsechat/internal/app"
	"pulsechat/internal/store"
	"pulsechat/internal/transport/http/response"
)

type UserHandler struct {
	chatService *app.ChatService
}

type RegisterUserRequest struct {
	Username string `json:"username"`
}

func NewUserHandler(chatService *app.ChatService) *UserHandler {
	return &UserHandler{chatService: chatService}
}

// Register is idempotent: registering an existing username returns its id.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, bindErrorMessage(err))
		return
	}

	user, err := h.chatService.RegisterUser(c.Request.Context(), req.Username)
	if err != nil {
		var validationErr *store.ValidationError
		if errors.As(err, &validationErr) {
			response.Error(c, http.StatusBadRequest, validationErr.Message)
			return
		}
		response.Error(c, http.StatusInternalServerError, "register user failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.chatService.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list users failed")
		return
	}

	c.JSON(http.StatusOK, users)
}
