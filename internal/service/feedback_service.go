package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/domain/repository"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

const (
	maxFeedbackLength    = 5000
	maxFeedbackAttempts  = 5
	feedbackRetryBatch   = 50
	feedbackSendDeadline = 30 * time.Second
)

// FeedbackService сохраняет отзывы и пересылает их сопровождающим
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	email        EmailService
	now          func() time.Time
}

// NewFeedbackService создает новый сервис отзывов и возвращает ошибку при проблемах
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, email EmailService) (*FeedbackService, error) {
	if feedbackRepo == nil {
		return nil, fmt.Errorf("FeedbackRepository is required for FeedbackService")
	}
	if email == nil {
		email = &NoopEmailService{}
	}
	return &FeedbackService{feedbackRepo: feedbackRepo, email: email, now: time.Now}, nil
}

// Submit сохраняет отзыв и сразу пытается отправить его.
// Ошибка отправки не возвращается: отзыв остается pending и уходит фоновой задачей.
func (s *FeedbackService) Submit(ctx context.Context, session auth.Session, message string) (*entity.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(message) > maxFeedbackLength {
		return nil, fmt.Errorf("%w: message must be at most %d characters", apperrors.ErrValidation, maxFeedbackLength)
	}

	feedback := &entity.Feedback{
		UserID:   session.UserID,
		Username: session.Username,
		Message:  message,
		Status:   entity.FeedbackStatusPending,
	}
	if err := s.feedbackRepo.Create(ctx, feedback); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	s.deliver(ctx, feedback)
	return feedback, nil
}

// RetryPending повторно отправляет неотправленные отзывы, возвращает число отправленных
func (s *FeedbackService) RetryPending(ctx context.Context) (int, error) {
	pending, err := s.feedbackRepo.ListPending(ctx, maxFeedbackAttempts, feedbackRetryBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to list pending feedback: %w", err)
	}

	sent := 0
	for i := range pending {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if s.deliver(ctx, &pending[i]) {
			sent++
		}
	}
	if len(pending) > 0 {
		log.Printf("[FeedbackService] Повторная отправка: %d из %d", sent, len(pending))
	}
	return sent, nil
}

func (s *FeedbackService) deliver(ctx context.Context, feedback *entity.Feedback) bool {
	sendCtx, cancel := context.WithTimeout(ctx, feedbackSendDeadline)
	defer cancel()

	if err := s.email.SendFeedback(sendCtx, feedback); err != nil {
		log.Printf("[FeedbackService] Не удалось отправить отзыв ID=%d: %v", feedback.ID, err)
		if markErr := s.feedbackRepo.MarkFailed(ctx, feedback.ID, err.Error()); markErr != nil {
			log.Printf("[FeedbackService] Не удалось отметить ошибку отзыва ID=%d: %v", feedback.ID, markErr)
		}
		feedback.Attempts++
		feedback.LastError = err.Error()
		return false
	}

	at := s.now()
	if err := s.feedbackRepo.MarkSent(ctx, feedback.ID, at); err != nil {
		log.Printf("[FeedbackService] Не удалось отметить отправку отзыва ID=%d: %v", feedback.ID, err)
		return false
	}
	feedback.Status = entity.FeedbackStatusSent
	feedback.SentAt = &at
	return true
}
