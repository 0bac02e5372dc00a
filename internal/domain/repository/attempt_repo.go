package repository

import (
	"context"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/engine"
)

// CategoryStat - агрегат попыток пользователя по категории
type CategoryStat struct {
	Category int `db:"categorie" json:"category"`
	Attempts int `db:"attempts" json:"total"`
	Correct  int `db:"correct" json:"correct"`
}

// AttemptRepository определяет методы для записи результатов
type AttemptRepository interface {
	// Upsert атомарно создает запись или обновляет существующую для (user_id, exercise_numero)
	Upsert(ctx context.Context, record *entity.AttemptRecord) error
	GetByUserAndExercise(ctx context.Context, userID uint, numero int) (*entity.AttemptRecord, error)
}

// StatsRepository - read-модель статистики
type StatsRepository interface {
	// CategoryStats возвращает суммы попыток по категориям, упорядоченные по категории
	CategoryStats(ctx context.Context, userID uint) ([]CategoryStat, error)
	// CategoryAggregates - те же суммы в виде, удобном для рекомендаций
	CategoryAggregates(ctx context.Context, userID uint) (map[int]engine.CategoryAggregate, error)
}
