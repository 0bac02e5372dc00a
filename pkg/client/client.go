// Package client - HTTP клиент API automatismes для консольного тренажера.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/engine"
	"github.com/yourusername/automatismes-api/internal/handler/dto"
)

// APIError - ошибка, возвращенная сервером в формате {"error", "error_type"}
type APIError struct {
	Status  int
	Message string `json:"error"`
	Type    string `json:"error_type"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Type)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// IsType проверяет error_type ошибки API
func IsType(err error, errorType string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == errorType
}

// StatRow - успехи по категории
type StatRow struct {
	Category int    `json:"category"`
	Label    string `json:"label"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Rate     int    `json:"rate"`
}

// ExportedFile - скачанный отчет
type ExportedFile struct {
	Name string
	Data []byte
}

// Client обращается к API и ведет сессию через SessionStore
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient заменяет http.Client (таймауты, транспорт в тестах)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New создает клиента. baseURL - корень API, например http://localhost:8080/api
func New(baseURL string, store SessionStore, opts ...Option) *Client {
	if store == nil {
		store = NewMemorySessionStore()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session возвращает текущую сессию
func (c *Client) Session() (*Session, error) {
	return c.store.Load()
}

// ============================================================================
// Аутентификация
// ============================================================================

// Register создает учетную запись (вход выполняется отдельно)
func (c *Client) Register(ctx context.Context, username, password string) (*dto.UserResponse, error) {
	var resp struct {
		Message string           `json:"message"`
		User    dto.UserResponse `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/register", false, dto.CredentialsRequest{User: username, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login входит и сохраняет сессию. Старая сессия сбрасывается до попытки входа.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := c.store.Clear(); err != nil {
		return nil, err
	}

	var resp dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, dto.CredentialsRequest{User: username, Password: password}, &resp); err != nil {
		return nil, err
	}

	s := &Session{
		Token:     resp.Token,
		UserID:    resp.User.ID,
		Username:  resp.User.Username,
		ExpiresAt: resp.ExpiresAt,
	}
	if err := c.store.Save(s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

// Logout отзывает токен на сервере и всегда очищает локальную сессию
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", true, nil, nil)
	if clearErr := c.store.Clear(); clearErr != nil {
		return clearErr
	}
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	return err
}

// VerifyToken проверяет сессию на сервере
func (c *Client) VerifyToken(ctx context.Context) (*dto.UserResponse, error) {
	var resp struct {
		Valid bool             `json:"valid"`
		User  dto.UserResponse `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/verify-token", true, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// ============================================================================
// Каталог
// ============================================================================

func (c *Client) Automatisms(ctx context.Context) (map[string][]string, error) {
	var catalog map[string][]string
	err := c.do(ctx, http.MethodGet, "/automatismes", true, nil, &catalog)
	return catalog, err
}

func (c *Client) Exercises(ctx context.Context, automatisme string) ([]entity.Exercise, error) {
	var list []entity.Exercise
	err := c.do(ctx, http.MethodGet, "/exercises/"+url.PathEscape(automatisme), true, nil, &list)
	return list, err
}

func (c *Client) Methods(ctx context.Context, automatisme string) ([]entity.Method, error) {
	var list []entity.Method
	err := c.do(ctx, http.MethodGet, "/methods/"+url.PathEscape(automatisme), true, nil, &list)
	return list, err
}

// ============================================================================
// Тренировка
// ============================================================================

func (c *Client) Recommendation(ctx context.Context) (*engine.Recommendation, error) {
	var rec engine.Recommendation
	if err := c.do(ctx, http.MethodGet, "/recommendation", true, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// StartPractice получает упражнение; пустой запрос - по рекомендации
func (c *Client) StartPractice(ctx context.Context, req dto.StartPracticeRequest) (*dto.PracticeAttemptResponse, error) {
	var resp dto.PracticeAttemptResponse
	if err := c.do(ctx, http.MethodPost, "/practice", true, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Answer(ctx context.Context, attemptID, answer string) (*dto.AnswerResponse, error) {
	var resp dto.AnswerResponse
	path := "/practice/" + url.PathEscape(attemptID) + "/answer"
	if err := c.do(ctx, http.MethodPost, path, true, dto.AnswerRequest{Answer: answer}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SaveResult(ctx context.Context, req dto.ResultRequest) (*entity.AttemptRecord, error) {
	var rec entity.AttemptRecord
	if err := c.do(ctx, http.MethodPost, "/results", true, req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ============================================================================
// Статистика и отзывы
// ============================================================================

func (c *Client) Stats(ctx context.Context) ([]StatRow, error) {
	var rows []StatRow
	err := c.do(ctx, http.MethodGet, "/stats", true, nil, &rows)
	return rows, err
}

// ExportStats скачивает "Rapport de révision" (pdf или xlsx)
func (c *Client) ExportStats(ctx context.Context, format string) (*ExportedFile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/stats/export?format="+url.QueryEscape(format), true, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	name := "rapport-revision." + format
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		name = params["filename"]
	}
	return &ExportedFile{Name: name, Data: data}, nil
}

func (c *Client) SendFeedback(ctx context.Context, message string) error {
	return c.do(ctx, http.MethodPost, "/feedback", true, dto.FeedbackRequest{Message: message}, nil)
}

// ============================================================================
// Транспорт
// ============================================================================

func (c *Client) newRequest(ctx context.Context, method, path string, authed bool, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		s, err := c.store.Load()
		if err != nil {
			return nil, err
		}
		if s.Expired(time.Now()) {
			_ = c.store.Clear()
			return nil, ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, authed bool, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, authed, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// decodeError читает ошибку API; если сервер отклонил токен, локальная сессия сбрасывается
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	if apiErr.tokenRejected() {
		_ = c.store.Clear()
	}
	return apiErr
}

// tokenRejected - ответ означает, что токен больше не действует.
// 403 на чужую попытку и 5xx сессию не сбрасывают.
func (e *APIError) tokenRejected() bool {
	if e.Status != http.StatusUnauthorized && e.Status != http.StatusForbidden {
		return false
	}
	return strings.HasPrefix(e.Type, "token_") || e.Type == "unauthorized"
}
