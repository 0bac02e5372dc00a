package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/engine"
	"github.com/yourusername/automatismes-api/internal/middleware"
	"github.com/yourusername/automatismes-api/internal/report"
	"github.com/yourusername/automatismes-api/internal/service"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSession = auth.Session{UserID: 7, Username: "eleve1", TokenID: "jti-1"}

// newTestRouter создает gin.Engine; withSession имитирует пройденный RequireAuth
func newTestRouter(withSession bool) *gin.Engine {
	r := gin.New()
	if withSession {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyUserID, testSession.UserID)
			c.Set(middleware.ContextKeySession, testSession)
			c.Next()
		})
	}
	return r
}

// performRequest выполняет запрос с JSON телом (body == nil - пустое тело)
func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		buf.Write(data)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// Моки use case интерфейсов
// ============================================================================

type MockAuthUseCase struct{ mock.Mock }

func (m *MockAuthUseCase) Register(ctx context.Context, username, password string) (*entity.User, error) {
	args := m.Called(ctx, username, password)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if r := args.Get(0); r != nil {
		return r.(*service.LoginResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, session auth.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockAuthUseCase) CurrentUser(ctx context.Context, session auth.Session) (*entity.User, error) {
	args := m.Called(ctx, session)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalogUseCase struct{ mock.Mock }

func (m *MockCatalogUseCase) Automatisms(ctx context.Context) (service.Catalog, error) {
	args := m.Called(ctx)
	if c := args.Get(0); c != nil {
		return c.(service.Catalog), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogUseCase) Exercises(ctx context.Context, automatisme string) ([]entity.Exercise, error) {
	args := m.Called(ctx, automatisme)
	if l := args.Get(0); l != nil {
		return l.([]entity.Exercise), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogUseCase) Methods(ctx context.Context, automatisme string) ([]entity.Method, error) {
	args := m.Called(ctx, automatisme)
	if l := args.Get(0); l != nil {
		return l.([]entity.Method), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPracticeUseCase struct{ mock.Mock }

func (m *MockPracticeUseCase) Recommend(ctx context.Context, userID uint) (engine.Recommendation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(engine.Recommendation), args.Error(1)
}

func (m *MockPracticeUseCase) Start(ctx context.Context, userID uint, in service.StartInput) (*service.StartedAttempt, error) {
	args := m.Called(ctx, userID, in)
	if s := args.Get(0); s != nil {
		return s.(*service.StartedAttempt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPracticeUseCase) Submit(ctx context.Context, userID uint, attemptID, answer string) (*service.AnswerResult, error) {
	args := m.Called(ctx, userID, attemptID, answer)
	if r := args.Get(0); r != nil {
		return r.(*service.AnswerResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPracticeUseCase) SaveResult(ctx context.Context, userID uint, in service.ResultInput) (*entity.AttemptRecord, error) {
	args := m.Called(ctx, userID, in)
	if r := args.Get(0); r != nil {
		return r.(*entity.AttemptRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStatsUseCase struct{ mock.Mock }

func (m *MockStatsUseCase) Stats(ctx context.Context, userID uint) ([]service.CategoryStatView, error) {
	args := m.Called(ctx, userID)
	if l := args.Get(0); l != nil {
		return l.([]service.CategoryStatView), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStatsUseCase) Export(ctx context.Context, session auth.Session, format string) (*report.File, error) {
	args := m.Called(ctx, session, format)
	if f := args.Get(0); f != nil {
		return f.(*report.File), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockFeedbackUseCase struct{ mock.Mock }

func (m *MockFeedbackUseCase) Submit(ctx context.Context, session auth.Session, message string) (*entity.Feedback, error) {
	args := m.Called(ctx, session, message)
	if f := args.Get(0); f != nil {
		return f.(*entity.Feedback), args.Error(1)
	}
	return nil, args.Error(1)
}
