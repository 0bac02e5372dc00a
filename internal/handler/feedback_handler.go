package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/handler/dto"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

// FeedbackUseCase - прием отзывов
type FeedbackUseCase interface {
	Submit(ctx context.Context, session auth.Session, message string) (*entity.Feedback, error)
}

// FeedbackHandler принимает сообщения для авторов упражнений
type FeedbackHandler struct {
	feedback FeedbackUseCase
}

func NewFeedbackHandler(feedback FeedbackUseCase) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// SubmitFeedback сохраняет отзыв. Письмо может уйти позже, через повторную отправку.
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	feedback, err := h.feedback.Submit(c.Request.Context(), session, req.Message)
	if err != nil {
		respondError(c, "FeedbackHandler", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Merci pour votre retour",
		"id":      feedback.ID,
		"status":  feedback.Status,
	})
}
