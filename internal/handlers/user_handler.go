package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskflow/internal/services"
)

type UserHandler struct {
	service services.UserService
}

type registerUserRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	TelegramChatID int64  `json:"telegram_chat_id"`
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Регистрация пользователя
// @Description  Создаёт администратора или исполнителя (только admin)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body      registerUserRequest  true  "Новый пользователь"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /auth/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	requester := currentRequester(c)

	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields required"})
		return
	}

	user, err := h.service.Register(c.Request.Context(), requester, services.RegisterUserInput{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Role:           req.Role,
		TelegramChatID: req.TelegramChatID,
	})
	if err != nil {
		writeError(c, "[user][register]", err)
		return
	}
	log.Printf("[user][register] created id=%s role=%s by=%s", user.ID, user.Role, requester.ID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user, // password_hash помечен json:"-"
	})
}

// @Summary      Список пользователей
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.User
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, "[user][list]", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Список исполнителей
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.User
// @Router       /users/workers [get]
func (h *UserHandler) ListWorkers(c *gin.Context) {
	workers, err := h.service.ListWorkers(c.Request.Context())
	if err != nil {
		writeError(c, "[user][workers]", err)
		return
	}
	c.JSON(http.StatusOK, workers)
}
