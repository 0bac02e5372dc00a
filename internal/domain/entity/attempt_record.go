package entity

import (
	"time"
)

// AttemptRecord - сводка попыток пользователя по одному упражнению.
// Одна строка на пару (user_id, exercise_numero).
type AttemptRecord struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex:idx_attempt_user_exercise" json:"user_id"`
	ExerciseNumero    int       `gorm:"not null;uniqueIndex:idx_attempt_user_exercise" json:"exercice_numero"`
	ExerciseCategorie int       `gorm:"not null;index" json:"exercice_categorie"`
	LastScore         int       `gorm:"not null;default:0" json:"last_score"`
	BestScore         int       `gorm:"not null;default:0" json:"best_score"`
	Attempts          int       `gorm:"not null;default:0" json:"attempts"`
	Correct           int       `gorm:"not null;default:0" json:"correct"`
	DurationSeconds   int       `gorm:"not null;default:0" json:"duree"`
	LastAttemptAt     time.Time `gorm:"not null" json:"last_attempt_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (AttemptRecord) TableName() string {
	return "attempt_records"
}

// ScoreFor: 1 за верный ответ, 0 за неверный
func ScoreFor(correct bool) int {
	if correct {
		return 1
	}
	return 0
}

// NewAttemptRecord создает запись первой попытки
func NewAttemptRecord(userID uint, numero, categorie int, correct bool, duration time.Duration, at time.Time) *AttemptRecord {
	score := ScoreFor(correct)
	return &AttemptRecord{
		UserID:            userID,
		ExerciseNumero:    numero,
		ExerciseCategorie: categorie,
		LastScore:         score,
		BestScore:         score,
		Attempts:          1,
		Correct:           score,
		DurationSeconds:   int(duration.Round(time.Second) / time.Second),
		LastAttemptAt:     at,
	}
}
