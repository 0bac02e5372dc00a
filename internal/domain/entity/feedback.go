package entity

import (
	"time"
)

// Статусы доставки отзыва
const (
	FeedbackStatusPending = "pending"
	FeedbackStatusSent    = "sent"
)

// Feedback - сообщение пользователя для авторов упражнений
type Feedback struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Username  string     `gorm:"size:50;not null" json:"username"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Status    string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError string     `gorm:"type:text;not null;default:''" json:"-"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Feedback) TableName() string {
	return "feedback"
}
