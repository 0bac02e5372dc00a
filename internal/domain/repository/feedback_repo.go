package repository

import (
	"context"
	"time"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
)

// FeedbackRepository определяет методы для работы с отзывами
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	// ListPending возвращает неотправленные отзывы с числом попыток меньше maxAttempts
	ListPending(ctx context.Context, maxAttempts, limit int) ([]entity.Feedback, error)
	MarkSent(ctx context.Context, id uint, at time.Time) error
	MarkFailed(ctx context.Context, id uint, reason string) error
}
