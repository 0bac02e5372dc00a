package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/domain/repository"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 50
)

// TokenIssuer выпускает и отзывает токены доступа
type TokenIssuer interface {
	GenerateToken(user *entity.User) (string, *auth.JWTCustomClaims, error)
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// AuthService предоставляет методы для регистрации и входа пользователей
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// LoginResult - результат успешного входа
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if tokens == nil {
		return nil, fmt.Errorf("TokenIssuer is required for AuthService")
	}
	return &AuthService{userRepo: userRepo, tokens: tokens}, nil
}

// Register регистрирует нового пользователя
func (s *AuthService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: user is required", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, fmt.Errorf("%w: user must be at most %d characters", apperrors.ErrValidation, maxUsernameLength)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this username already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}

	user := &entity.User{Username: username, Password: password}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d", user.ID)
	return user, nil
}

// Login проверяет учетные данные и выпускает токен
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: user and password are required", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя ID=%d", user.ID)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, claims, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Logout отзывает токен текущей сессии
func (s *AuthService) Logout(ctx context.Context, session auth.Session) error {
	if session.TokenID == "" {
		return fmt.Errorf("%w: session has no token id", apperrors.ErrUnauthorized)
	}
	if err := s.tokens.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	log.Printf("[AuthService] Пользователь ID=%d вышел", session.UserID)
	return nil
}

// CurrentUser возвращает пользователя сессии
func (s *AuthService) CurrentUser(ctx context.Context, session auth.Session) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Пользователь удален после выпуска токена
			return nil, fmt.Errorf("%w: user no longer exists", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	return user, nil
}
