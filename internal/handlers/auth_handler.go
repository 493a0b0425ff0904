package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskflow/internal/models"
	"taskflow/internal/services"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// @Summary      Вход в систему
// @Description  Проверяет email/пароль и возвращает JWT на 24 часа
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Данные для входа"
// @Success      200    {object}  services.LoginResult
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password required"})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt email=%q", email)

	res, err := h.userService.Login(c.Request.Context(), email, req.Password)
	if err != nil {
		log.Printf("[auth][login] failed email=%q: err=%v", email, err)
		writeError(c, "[auth][login]", err)
		return
	}
	log.Printf("[auth][login] success userID=%s role=%s", res.User.ID, res.User.Role)

	c.JSON(http.StatusOK, res)
}
