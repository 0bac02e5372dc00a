package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/engine"
	"github.com/yourusername/automatismes-api/internal/handler/dto"
	"github.com/yourusername/automatismes-api/internal/service"
)

// ContextKeyAttemptID - ключ ID попытки, проверенного ExtractUUIDParam
const ContextKeyAttemptID = "attemptID"

// PracticeUseCase - тренировка: рекомендация, выдача упражнения, проверка ответа
type PracticeUseCase interface {
	Recommend(ctx context.Context, userID uint) (engine.Recommendation, error)
	Start(ctx context.Context, userID uint, in service.StartInput) (*service.StartedAttempt, error)
	Submit(ctx context.Context, userID uint, attemptID, answer string) (*service.AnswerResult, error)
	SaveResult(ctx context.Context, userID uint, in service.ResultInput) (*entity.AttemptRecord, error)
}

// PracticeHandler обрабатывает запросы тренировки
type PracticeHandler struct {
	practice PracticeUseCase
}

func NewPracticeHandler(practice PracticeUseCase) *PracticeHandler {
	return &PracticeHandler{practice: practice}
}

// GetRecommendation возвращает automatisme, который стоит повторить
func (h *PracticeHandler) GetRecommendation(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	rec, err := h.practice.Recommend(c.Request.Context(), session.UserID)
	if err != nil {
		h.handlePracticeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// StartPractice выдает отрисованное упражнение
func (h *PracticeHandler) StartPractice(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.StartPracticeRequest
	// Пустое тело допустимо: упражнение выбирается по рекомендации
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return
	}

	started, err := h.practice.Start(c.Request.Context(), session.UserID, service.StartInput{
		Automatisme: req.Automatisme,
		Numero:      req.Numero,
	})
	if err != nil {
		h.handlePracticeError(c, err)
		return
	}

	resp := dto.PracticeAttemptResponse{
		AttemptID:  started.AttemptID,
		Enonce:     started.Statement,
		Unresolved: started.Unresolved,
		ExpiresAt:  started.ExpiresAt,
	}
	if ex := started.Exercise; ex != nil {
		resp.Numero = ex.Numero
		resp.Categorie = ex.Categorie
		resp.Automatisme = ex.Automatisme
		resp.TypeReponse = ex.TypeReponse
	}
	c.JSON(http.StatusCreated, resp)
}

// SubmitAnswer проверяет ответ на выданное упражнение
func (h *PracticeHandler) SubmitAnswer(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	attemptID := c.GetString(ContextKeyAttemptID)
	result, err := h.practice.Submit(c.Request.Context(), session.UserID, attemptID, req.Answer)
	if err != nil {
		h.handlePracticeError(c, err)
		return
	}

	resp := dto.AnswerResponse{
		Correct:    result.Verdict.Correct,
		Kind:       result.Verdict.Kind.String(),
		Expected:   result.Expected,
		Recognized: result.Verdict.ParseErr == nil,
		Correction: result.Correction,
		Duree:      int(result.Duration.Round(time.Second) / time.Second),
		Record:     result.Record,
	}
	if result.Exercise != nil {
		resp.Numero = result.Exercise.Numero
	}
	c.JSON(http.StatusOK, resp)
}

// SaveResult записывает результат, проверенный на клиенте
func (h *PracticeHandler) SaveResult(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.practice.SaveResult(c.Request.Context(), session.UserID, service.ResultInput{
		Numero:          req.ExerciceNumero,
		Categorie:       req.ExerciceCategorie,
		Correct:         *req.Correct,
		DurationSeconds: req.Duree,
	})
	if err != nil {
		h.handlePracticeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *PracticeHandler) handlePracticeError(c *gin.Context, err error) {
	respondError(c, "PracticeHandler", err)
}
