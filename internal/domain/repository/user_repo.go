package repository

import (
	"context"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uint) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// AddScore увеличивает общий счет пользователя на delta
	AddScore(ctx context.Context, userID uint, delta int64) error
}
