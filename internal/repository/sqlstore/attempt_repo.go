package sqlstore

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий результатов
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// upsertAttemptSQL работает и в PostgreSQL, и в SQLite (>= 3.24).
// best_score через CASE: GREATEST есть только в PostgreSQL.
const upsertAttemptSQL = `
	INSERT INTO attempt_records
		(user_id, exercise_numero, exercise_categorie, last_score, best_score, attempts, correct,
		 duration_seconds, last_attempt_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?)
	ON CONFLICT (user_id, exercise_numero)
	DO UPDATE SET
		exercise_categorie = excluded.exercise_categorie,
		last_score = excluded.last_score,
		best_score = CASE WHEN excluded.best_score > attempt_records.best_score
			THEN excluded.best_score ELSE attempt_records.best_score END,
		attempts = attempt_records.attempts + 1,
		correct = attempt_records.correct + excluded.correct,
		duration_seconds = excluded.duration_seconds,
		last_attempt_at = excluded.last_attempt_at,
		updated_at = excluded.updated_at
`

// Upsert записывает попытку одним запросом (INSERT ... ON CONFLICT DO UPDATE),
// поэтому параллельные ответы одного пользователя не теряют счетчики.
func (r *AttemptRepo) Upsert(ctx context.Context, rec *entity.AttemptRecord) error {
	now := time.Now()
	if rec.LastAttemptAt.IsZero() {
		rec.LastAttemptAt = now
	}

	err := r.db.WithContext(ctx).Exec(upsertAttemptSQL,
		rec.UserID, rec.ExerciseNumero, rec.ExerciseCategorie,
		rec.LastScore, rec.BestScore, rec.Correct,
		rec.DurationSeconds, rec.LastAttemptAt, now, now,
	).Error
	if err != nil {
		log.Printf("[AttemptRepo.Upsert] Ошибка записи попытки user=%d exercise=%d: %v", rec.UserID, rec.ExerciseNumero, err)
		return err
	}
	return nil
}

// GetByUserAndExercise возвращает сводку пользователя по упражнению
func (r *AttemptRepo) GetByUserAndExercise(ctx context.Context, userID uint, numero int) (*entity.AttemptRecord, error) {
	var rec entity.AttemptRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND exercise_numero = ?", userID, numero).
		First(&rec).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}
