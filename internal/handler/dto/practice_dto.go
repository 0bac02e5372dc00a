package dto

import (
	"time"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
)

// StartPracticeRequest - выбор упражнения. Пустое тело - рекомендованный automatisme.
type StartPracticeRequest struct {
	Automatisme string `json:"automatisme"`
	Numero      int    `json:"numero"`
}

// PracticeAttemptResponse - отрисованное упражнение, ожидающее ответа
type PracticeAttemptResponse struct {
	AttemptID   string    `json:"attempt_id"`
	Numero      int       `json:"numero"`
	Categorie   int       `json:"categorie"`
	Automatisme string    `json:"automatisme"`
	Enonce      string    `json:"enonce"`
	TypeReponse string    `json:"type_reponse,omitempty"`
	Unresolved  []string  `json:"unresolved,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AnswerRequest - ответ пользователя как есть, разбор на сервере
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AnswerResponse - вердикт и решение с подставленными значениями
type AnswerResponse struct {
	Correct    bool                  `json:"correct"`
	Kind       string                `json:"kind"`
	Expected   float64               `json:"expected"`
	Recognized bool                  `json:"recognized"`
	Correction string                `json:"correction"`
	Numero     int                   `json:"numero"`
	Duree      int                   `json:"duree"`
	Record     *entity.AttemptRecord `json:"record,omitempty"`
}

// ResultRequest - результат, проверенный на клиенте
type ResultRequest struct {
	ExerciceNumero    int   `json:"exercice_numero" binding:"required"`
	ExerciceCategorie int   `json:"exercice_categorie"`
	Correct           *bool `json:"correct" binding:"required"`
	Duree             int   `json:"duree"`
}

// FeedbackRequest - сообщение для авторов
type FeedbackRequest struct {
	Message string `json:"message" binding:"required"`
}
