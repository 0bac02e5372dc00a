package dto

import (
	"time"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
)

// CredentialsRequest - тело запросов регистрации и входа
type CredentialsRequest struct {
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse - публичные данные пользователя
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse - ответ на успешный вход
type LoginResponse struct {
	Token     string       `json:"token"`
	User      UserResponse `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewUserResponse преобразует сущность в DTO
func NewUserResponse(u *entity.User) UserResponse {
	if u == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Score:     u.Score,
		CreatedAt: u.CreatedAt,
	}
}
