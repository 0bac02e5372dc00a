package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/handler/dto"
	"github.com/yourusername/automatismes-api/internal/service"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

// AuthUseCase - операции аутентификации, нужные хендлеру
type AuthUseCase interface {
	Register(ctx context.Context, username, password string) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, session auth.Session) error
	CurrentUser(ctx context.Context, session auth.Session) (*entity.User, error)
}

// AuthHandler обрабатывает запросы регистрации, входа и выхода
type AuthHandler struct {
	authService AuthUseCase
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService AuthUseCase) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register создает учетную запись
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.User, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Compte créé",
		"user":    dto.NewUserResponse(user),
	})
}

// Login проверяет пароль и выдает токен
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.User, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		User:      dto.NewUserResponse(result.User),
		ExpiresAt: result.ExpiresAt,
	})
}

// VerifyToken подтверждает, что токен действителен, и возвращает пользователя
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), session)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user":  dto.NewUserResponse(user),
	})
}

// Logout отзывает текущий токен
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), session); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion réussie"})
}

func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	respondError(c, "AuthHandler", err)
}
