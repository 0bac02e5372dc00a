package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/automatismes-api/internal/middleware"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/internal/service"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

// respondError переводит ошибку сервиса в HTTP статус и error_type.
// Специфичные ошибки сервиса проверяются раньше общих, которые они оборачивают.
func respondError(c *gin.Context, component string, err error) {
	switch {
	case errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "Aucun exercice disponible", "error_type": "no_data"})
	case errors.Is(err, service.ErrCorrectionUnavailable):
		log.Printf("[%s] Correction indisponible: %v", component, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Correction indisponible pour cet exercice", "error_type": "correction_unavailable"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrUnprocessable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "error_type": "validation"})
	default:
		log.Printf("[%s] Internal server error: %v", component, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}

// bindError - ответ на невалидное тело запроса
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error(), "error_type": "validation"})
}

// sessionOrAbort достает сессию, установленную RequireAuth
func sessionOrAbort(c *gin.Context) (session auth.Session, ok bool) {
	session, ok = middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
	}
	return session, ok
}
