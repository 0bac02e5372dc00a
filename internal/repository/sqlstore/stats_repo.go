package sqlstore

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/automatismes-api/internal/domain/repository"
	"github.com/yourusername/automatismes-api/internal/engine"
)

// StatsRepo - read-модель статистики поверх sqlx
type StatsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo создает репозиторий статистики
func NewStatsRepo(db *sqlx.DB) *StatsRepo {
	return &StatsRepo{db: db}
}

const categoryStatsSQL = `
	SELECT exercise_categorie AS categorie,
	       COALESCE(SUM(attempts), 0) AS attempts,
	       COALESCE(SUM(correct), 0) AS correct
	FROM attempt_records
	WHERE user_id = ?
	GROUP BY exercise_categorie
	ORDER BY exercise_categorie
`

// CategoryStats возвращает суммы попыток и верных ответов по категориям
func (r *StatsRepo) CategoryStats(ctx context.Context, userID uint) ([]repository.CategoryStat, error) {
	stats := []repository.CategoryStat{}
	if err := r.db.SelectContext(ctx, &stats, r.db.Rebind(categoryStatsSQL), userID); err != nil {
		return nil, err
	}
	return stats, nil
}

// CategoryAggregates возвращает агрегаты по категориям для рекомендаций
func (r *StatsRepo) CategoryAggregates(ctx context.Context, userID uint) (map[int]engine.CategoryAggregate, error) {
	stats, err := r.CategoryStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[int]engine.CategoryAggregate, len(stats))
	for _, s := range stats {
		out[s.Category] = engine.CategoryAggregate{Attempts: s.Attempts, Correct: s.Correct}
	}
	return out, nil
}
