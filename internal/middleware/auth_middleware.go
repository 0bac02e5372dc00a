package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

const (
	// ContextKeyUserID - ключ ID пользователя в gin.Context
	ContextKeyUserID = "user_id"
	// ContextKeySession - ключ auth.Session в gin.Context
	ContextKeySession = "session"
)

// TokenParser проверяет bearer-токен
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*auth.JWTCustomClaims, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	tokens TokenParser
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth проверяет заголовок Authorization: Bearer {token}
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			return
		}

		claims, err := m.tokens.ParseToken(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrExpiredToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_expired"})
			case errors.Is(err, apperrors.ErrUnauthorized):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			default:
				// Токен не отклонен, проверка не удалась (например, Redis недоступен)
				log.Printf("[AuthMiddleware] Ошибка проверки токена: %v", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
			}
			return
		}

		session := auth.SessionFromClaims(claims)
		c.Set(ContextKeyUserID, session.UserID)
		c.Set(ContextKeySession, session)
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))

		c.Next()
	}
}

// CurrentSession возвращает сессию, установленную RequireAuth
func CurrentSession(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(ContextKeySession)
	if !ok {
		return auth.Session{}, false
	}
	s, ok := v.(auth.Session)
	return s, ok
}
