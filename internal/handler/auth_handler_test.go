package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/internal/service"
)

func newAuthRouter(svc *MockAuthUseCase, withSession bool) http.Handler {
	h := NewAuthHandler(svc)
	r := newTestRouter(withSession)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/verify-token", h.VerifyToken)
	r.POST("/auth/logout", h.Logout)
	return r
}

// ============================================================================
// Register
// ============================================================================

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		setup      func(m *MockAuthUseCase)
		wantStatus int
		wantType   string
	}{
		{
			name: "created",
			body: map[string]string{"user": "eleve1", "password": "secret123"},
			setup: func(m *MockAuthUseCase) {
				m.On("Register", mock.Anything, "eleve1", "secret123").Return(&entity.User{ID: 3, Username: "eleve1"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing password",
			body:       map[string]string{"user": "eleve1"},
			setup:      func(m *MockAuthUseCase) {},
			wantStatus: http.StatusBadRequest,
			wantType:   "validation",
		},
		{
			name: "duplicate username",
			body: map[string]string{"user": "eleve1", "password": "secret123"},
			setup: func(m *MockAuthUseCase) {
				m.On("Register", mock.Anything, "eleve1", "secret123").Return(nil, fmt.Errorf("%w: username taken", apperrors.ErrConflict))
			},
			wantStatus: http.StatusConflict,
			wantType:   "conflict",
		},
		{
			name: "short password",
			body: map[string]string{"user": "eleve1", "password": "abc"},
			setup: func(m *MockAuthUseCase) {
				m.On("Register", mock.Anything, "eleve1", "abc").Return(nil, fmt.Errorf("%w: password too short", apperrors.ErrValidation))
			},
			wantStatus: http.StatusBadRequest,
			wantType:   "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthUseCase)
			tt.setup(svc)

			w := performRequest(newAuthRouter(svc, false), http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			resp := parseJSONResponse(t, w)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, resp["error_type"])
			} else {
				user := resp["user"].(map[string]interface{})
				assert.Equal(t, "eleve1", user["username"])
				assert.NotContains(t, user, "password")
			}
			svc.AssertExpectations(t)
		})
	}
}

// ============================================================================
// Login / VerifyToken / Logout
// ============================================================================

func TestAuthHandler_Login(t *testing.T) {
	expires := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		svc := new(MockAuthUseCase)
		svc.On("Login", mock.Anything, "eleve1", "secret123").Return(&service.LoginResult{
			Token:     "signed.jwt.token",
			ExpiresAt: expires,
			User:      &entity.User{ID: 7, Username: "eleve1", Score: 4},
		}, nil)

		w := performRequest(newAuthRouter(svc, false), http.MethodPost, "/auth/login",
			map[string]string{"user": "eleve1", "password": "secret123"})
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parseJSONResponse(t, w)
		assert.Equal(t, "signed.jwt.token", resp["token"])
		assert.Equal(t, "2024-03-02T10:00:00Z", resp["expires_at"])
		assert.Equal(t, float64(4), resp["user"].(map[string]interface{})["score"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		svc := new(MockAuthUseCase)
		svc.On("Login", mock.Anything, "eleve1", "wrong").Return(nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized))

		w := performRequest(newAuthRouter(svc, false), http.MethodPost, "/auth/login",
			map[string]string{"user": "eleve1", "password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", parseJSONResponse(t, w)["error_type"])
	})
}

func TestAuthHandler_VerifyToken(t *testing.T) {
	t.Run("valid session", func(t *testing.T) {
		svc := new(MockAuthUseCase)
		svc.On("CurrentUser", mock.Anything, testSession).Return(&entity.User{ID: 7, Username: "eleve1"}, nil)

		w := performRequest(newAuthRouter(svc, true), http.MethodGet, "/auth/verify-token", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseJSONResponse(t, w)
		assert.Equal(t, true, resp["valid"])
		assert.Equal(t, float64(7), resp["user"].(map[string]interface{})["id"])
	})

	t.Run("no session", func(t *testing.T) {
		svc := new(MockAuthUseCase)
		w := performRequest(newAuthRouter(svc, false), http.MethodGet, "/auth/verify-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "CurrentUser", mock.Anything, mock.Anything)
	})

	t.Run("deleted user", func(t *testing.T) {
		svc := new(MockAuthUseCase)
		svc.On("CurrentUser", mock.Anything, testSession).Return(nil, apperrors.ErrUnauthorized)

		w := performRequest(newAuthRouter(svc, true), http.MethodGet, "/auth/verify-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthUseCase)
	svc.On("Logout", mock.Anything, testSession).Return(nil)

	w := performRequest(newAuthRouter(svc, true), http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
