package controllers

import (
	"net/http"

	"github.com/Danibruno18/credix/models"
	"github.com/Danibruno18/credix/services"
	"github.com/gin-gonic/gin"
)

// AuthController обрабатывает регистрацию и вход
type AuthController struct {
	users  *services.UserService
	tokens *services.TokenService
}

func NewAuthController(users *services.UserService, tokens *services.TokenService) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

// Register создает пользователя и сразу выдает токен
func (c *AuthController) Register(ctx *gin.Context) {
	var req services.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	user, err := c.users.Register(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := c.tokens.Issue(user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, token)
}

// Login проверяет пароль и выдает токен
func (c *AuthController) Login(ctx *gin.Context) {
	var req services.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request body")
		return
	}

	user, err := c.users.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := c.tokens.Issue(user)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, token)
}

// Me возвращает текущего пользователя
func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := ctx.Get("user")
	if !ok {
		respondError(ctx, services.ErrInvalidToken)
		return
	}
	ctx.JSON(http.StatusOK, user.(*models.User))
}
