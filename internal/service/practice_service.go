package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/domain/repository"
	"github.com/yourusername/automatismes-api/internal/engine"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/internal/pkg/textnorm"
)

const (
	attemptKeyPrefix = "practice:attempt:"
	attemptLockTTL   = 10 * time.Second
	maxAnswerLength  = 64
)

// PendingAttempt - выданное, но еще не проверенное упражнение. Живет в Redis до ответа или TTL.
type PendingAttempt struct {
	ID        string         `json:"id"`
	UserID    uint           `json:"user_id"`
	Numero    int            `json:"numero"`
	Binding   engine.Binding `json:"binding"`
	StartedAt time.Time      `json:"started_at"`
}

// StartInput - выбор упражнения: конкретный номер, automatisme или рекомендация
type StartInput struct {
	Automatisme string
	Numero      int
}

// StartedAttempt - подготовленное упражнение для клиента
type StartedAttempt struct {
	AttemptID  string
	Exercise   *entity.Exercise
	Statement  string
	Unresolved []string
	ExpiresAt  time.Time
}

// AnswerResult - проверенный ответ
type AnswerResult struct {
	Verdict    engine.Verdict
	Expected   float64
	Correction string
	Exercise   *entity.Exercise
	Duration   time.Duration
	Record     *entity.AttemptRecord
}

// ResultInput - результат, посчитанный клиентом (шаблон отрисован у клиента)
type ResultInput struct {
	Numero          int
	Categorie       int
	Correct         bool
	DurationSeconds int
}

// PracticeService выдает упражнения, проверяет ответы и записывает результаты
type PracticeService struct {
	exerciseRepo repository.ExerciseRepository
	attemptRepo  repository.AttemptRepository
	statsRepo    repository.StatsRepository
	userRepo     repository.UserRepository
	cacheRepo    repository.CacheRepository
	generator    *engine.Generator
	attemptTTL   time.Duration
	now          func() time.Time
}

// NewPracticeService создает новый сервис тренировки и возвращает ошибку при проблемах
func NewPracticeService(
	exerciseRepo repository.ExerciseRepository,
	attemptRepo repository.AttemptRepository,
	statsRepo repository.StatsRepository,
	userRepo repository.UserRepository,
	cacheRepo repository.CacheRepository,
	generator *engine.Generator,
	attemptTTL time.Duration,
) (*PracticeService, error) {
	if exerciseRepo == nil {
		return nil, fmt.Errorf("ExerciseRepository is required for PracticeService")
	}
	if attemptRepo == nil {
		return nil, fmt.Errorf("AttemptRepository is required for PracticeService")
	}
	if statsRepo == nil {
		return nil, fmt.Errorf("StatsRepository is required for PracticeService")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for PracticeService")
	}
	if cacheRepo == nil {
		return nil, fmt.Errorf("CacheRepository is required for PracticeService")
	}
	if generator == nil {
		return nil, fmt.Errorf("Generator is required for PracticeService")
	}
	if attemptTTL <= 0 {
		return nil, fmt.Errorf("attempt TTL must be positive")
	}
	return &PracticeService{
		exerciseRepo: exerciseRepo,
		attemptRepo:  attemptRepo,
		statsRepo:    statsRepo,
		userRepo:     userRepo,
		cacheRepo:    cacheRepo,
		generator:    generator,
		attemptTTL:   attemptTTL,
		now:          time.Now,
	}, nil
}

// Recommend выбирает automatisme категории с наименьшим уровнем владения
func (s *PracticeService) Recommend(ctx context.Context, userID uint) (engine.Recommendation, error) {
	pairs, err := s.exerciseRepo.ListPairs(ctx)
	if err != nil {
		return engine.Recommendation{}, fmt.Errorf("failed to list automatisms: %w", err)
	}
	aggregates, err := s.statsRepo.CategoryAggregates(ctx, userID)
	if err != nil {
		return engine.Recommendation{}, fmt.Errorf("failed to load category aggregates: %w", err)
	}

	rec, err := engine.Recommend(pairs, aggregates)
	if err != nil {
		if errors.Is(err, engine.ErrNoData) {
			return engine.Recommendation{}, ErrNoData
		}
		return engine.Recommendation{}, err
	}
	return rec, nil
}

// Start выбирает шаблон, генерирует значения и сохраняет попытку до ответа
func (s *PracticeService) Start(ctx context.Context, userID uint, in StartInput) (*StartedAttempt, error) {
	exercise, err := s.pickExercise(ctx, userID, in)
	if err != nil {
		return nil, err
	}

	tmpl := exercise.Template()
	inst := s.generator.Instantiate(tmpl)
	if len(inst.Unresolved) > 0 {
		log.Printf("[PracticeService] Упражнение %d: нет значений для плейсхолдеров %v", exercise.Numero, inst.Unresolved)
	}
	if inst.EvalErr != nil {
		log.Printf("[PracticeService] Упражнение %d: формула ответа не вычисляется: %v", exercise.Numero, inst.EvalErr)
	}

	startedAt := s.now()
	pending := PendingAttempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		Numero:    exercise.Numero,
		Binding:   inst.Binding,
		StartedAt: startedAt,
	}
	if err := s.cacheRepo.SetJSON(ctx, attemptKeyPrefix+pending.ID, pending, s.attemptTTL); err != nil {
		return nil, fmt.Errorf("failed to store pending attempt: %w", err)
	}

	return &StartedAttempt{
		AttemptID:  pending.ID,
		Exercise:   exercise,
		Statement:  inst.Statement,
		Unresolved: inst.Unresolved,
		ExpiresAt:  startedAt.Add(s.attemptTTL),
	}, nil
}

func (s *PracticeService) pickExercise(ctx context.Context, userID uint, in StartInput) (*entity.Exercise, error) {
	if in.Numero < 0 {
		return nil, fmt.Errorf("%w: numero must be positive", apperrors.ErrValidation)
	}
	if in.Numero > 0 {
		exercise, err := s.exerciseRepo.GetByNumero(ctx, in.Numero)
		if err != nil {
			return nil, fmt.Errorf("failed to get exercise %d: %w", in.Numero, err)
		}
		return exercise, nil
	}

	automatisme := strings.TrimSpace(in.Automatisme)
	if automatisme == "" {
		rec, err := s.Recommend(ctx, userID)
		if err != nil {
			return nil, err
		}
		automatisme = rec.Automatism
	}

	exercises, err := s.exerciseRepo.ListByAutomatismKey(ctx, textnorm.Key(automatisme))
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if len(exercises) == 0 {
		return nil, fmt.Errorf("%w: no exercises for automatisme %q", apperrors.ErrNotFound, automatisme)
	}
	picked := exercises[s.generator.Intn(len(exercises))]
	return &picked, nil
}

// Submit проверяет ответ на выданную попытку и записывает результат
func (s *PracticeService) Submit(ctx context.Context, userID uint, attemptID, answer string) (*AnswerResult, error) {
	if utf8.RuneCountInString(answer) > maxAnswerLength {
		return nil, fmt.Errorf("%w: answer is too long", apperrors.ErrValidation)
	}

	key := attemptKeyPrefix + attemptID
	lockKey := key + ":lock"

	// Один ответ на попытку: блокировка берется до чтения, параллельная отправка получает конфликт
	locked, err := s.cacheRepo.SetNX(ctx, lockKey, userID, attemptLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pending attempt: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: attempt is already being graded", apperrors.ErrConflict)
	}

	var pending PendingAttempt
	if err := s.cacheRepo.GetJSON(ctx, key, &pending); err != nil {
		s.unlock(ctx, lockKey)
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: attempt %s not found or expired", apperrors.ErrNotFound, attemptID)
		}
		return nil, fmt.Errorf("failed to load pending attempt: %w", err)
	}
	if pending.UserID != userID {
		s.unlock(ctx, lockKey)
		return nil, fmt.Errorf("%w: attempt belongs to another user", apperrors.ErrForbidden)
	}

	exercise, err := s.exerciseRepo.GetByNumero(ctx, pending.Numero)
	if err != nil {
		s.unlock(ctx, lockKey)
		return nil, fmt.Errorf("failed to get exercise %d: %w", pending.Numero, err)
	}

	tmpl := exercise.Template()
	expected, err := engine.Evaluate(tmpl.AnswerExpr, pending.Binding)
	if err != nil {
		log.Printf("[PracticeService] Попытка %s не засчитана, упражнение %d: %v", attemptID, exercise.Numero, err)
		s.discard(ctx, key)
		return nil, fmt.Errorf("%w: %w", ErrCorrectionUnavailable, err)
	}

	verdict := engine.Grade(tmpl, answer, expected)
	rendered := engine.Render(tmpl, pending.Binding)
	now := s.now()
	duration := now.Sub(pending.StartedAt)
	if duration < 0 {
		duration = 0
	}

	record := entity.NewAttemptRecord(userID, exercise.Numero, exercise.Categorie, verdict.Correct, duration, now)
	if err := s.attemptRepo.Upsert(ctx, record); err != nil {
		// Попытка остается, ответ можно отправить повторно
		s.unlock(ctx, lockKey)
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}
	if verdict.Correct {
		if err := s.userRepo.AddScore(ctx, userID, 1); err != nil {
			log.Printf("[PracticeService] Не удалось обновить счет пользователя ID=%d: %v", userID, err)
		}
	}
	s.discard(ctx, key)

	result := &AnswerResult{
		Verdict:    verdict,
		Expected:   expected,
		Correction: rendered.Correction,
		Exercise:   exercise,
		Duration:   duration,
	}
	if stored, err := s.attemptRepo.GetByUserAndExercise(ctx, userID, exercise.Numero); err == nil {
		result.Record = stored
	} else {
		log.Printf("[PracticeService] Не удалось прочитать запись попытки: %v", err)
	}
	return result, nil
}

func (s *PracticeService) unlock(ctx context.Context, lockKey string) {
	if err := s.cacheRepo.Delete(ctx, lockKey); err != nil {
		log.Printf("[PracticeService] Не удалось снять блокировку %s: %v", lockKey, err)
	}
}

func (s *PracticeService) discard(ctx context.Context, key string) {
	for _, k := range []string{key, key + ":lock"} {
		if err := s.cacheRepo.Delete(ctx, k); err != nil {
			log.Printf("[PracticeService] Не удалось удалить ключ %s: %v", k, err)
		}
	}
}

// SaveResult записывает результат, посчитанный клиентом
func (s *PracticeService) SaveResult(ctx context.Context, userID uint, in ResultInput) (*entity.AttemptRecord, error) {
	if in.Numero <= 0 {
		return nil, fmt.Errorf("%w: exercice_numero is required", apperrors.ErrValidation)
	}
	if in.DurationSeconds < 0 {
		return nil, fmt.Errorf("%w: duree must not be negative", apperrors.ErrValidation)
	}

	exercise, err := s.exerciseRepo.GetByNumero(ctx, in.Numero)
	if err != nil {
		return nil, fmt.Errorf("failed to get exercise %d: %w", in.Numero, err)
	}
	if in.Categorie != 0 && in.Categorie != exercise.Categorie {
		log.Printf("[PracticeService] Категория %d от клиента не совпадает с категорией %d упражнения %d",
			in.Categorie, exercise.Categorie, exercise.Numero)
	}

	record := entity.NewAttemptRecord(userID, exercise.Numero, exercise.Categorie, in.Correct,
		time.Duration(in.DurationSeconds)*time.Second, s.now())
	if err := s.attemptRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}
	if in.Correct {
		if err := s.userRepo.AddScore(ctx, userID, 1); err != nil {
			log.Printf("[PracticeService] Не удалось обновить счет пользователя ID=%d: %v", userID, err)
		}
	}

	stored, err := s.attemptRepo.GetByUserAndExercise(ctx, userID, exercise.Numero)
	if err != nil {
		return nil, fmt.Errorf("failed to read recorded result: %w", err)
	}
	return stored, nil
}
