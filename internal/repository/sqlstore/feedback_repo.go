package sqlstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
)

// FeedbackRepo реализует repository.FeedbackRepository
type FeedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo создает новый репозиторий отзывов
func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

// Create сохраняет отзыв в статусе pending
func (r *FeedbackRepo) Create(ctx context.Context, feedback *entity.Feedback) error {
	if feedback.Status == "" {
		feedback.Status = entity.FeedbackStatusPending
	}
	return r.db.WithContext(ctx).Create(feedback).Error
}

// ListPending возвращает неотправленные отзывы, самые старые первыми
func (r *FeedbackRepo) ListPending(ctx context.Context, maxAttempts, limit int) ([]entity.Feedback, error) {
	var items []entity.Feedback
	err := r.db.WithContext(ctx).
		Where("status = ? AND attempts < ?", entity.FeedbackStatusPending, maxAttempts).
		Order("id").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// MarkSent отмечает отзыв доставленным
func (r *FeedbackRepo) MarkSent(ctx context.Context, id uint, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"status":     entity.FeedbackStatusSent,
		"sent_at":    at,
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": "",
	})
}

// MarkFailed увеличивает счетчик попыток и запоминает ошибку
func (r *FeedbackRepo) MarkFailed(ctx context.Context, id uint, reason string) error {
	return r.update(ctx, id, map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": reason,
	})
}

func (r *FeedbackRepo) update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&entity.Feedback{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
