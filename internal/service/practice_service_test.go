package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/engine"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
)

type practiceFixture struct {
	svc       *PracticeService
	exercises *MockExerciseRepository
	attempts  *MockAttemptRepository
	stats     *MockStatsRepository
	users     *MockUserRepository
	cache     *MockCacheRepository
	now       time.Time
}

const testAttemptTTL = 30 * time.Minute

func newPracticeFixture(t *testing.T) *practiceFixture {
	t.Helper()
	f := &practiceFixture{
		exercises: new(MockExerciseRepository),
		attempts:  new(MockAttemptRepository),
		stats:     new(MockStatsRepository),
		users:     new(MockUserRepository),
		cache:     new(MockCacheRepository),
		now:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	svc, err := NewPracticeService(f.exercises, f.attempts, f.stats, f.users, f.cache,
		engine.NewSeededGenerator(7, engine.DefaultRules), testAttemptTTL)
	require.NoError(t, err)
	svc.now = func() time.Time { return f.now }
	f.svc = svc
	return f
}

func (f *practiceFixture) assertExpectations(t *testing.T) {
	f.exercises.AssertExpectations(t)
	f.attempts.AssertExpectations(t)
	f.stats.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func proportionExercise(numero int) entity.Exercise {
	return entity.Exercise{
		Numero:      numero,
		Categorie:   1,
		Automatisme: "Calculer une proportion",
		Enonce:      "Dans une classe de {{y}} élèves, {{x}} sont des filles.",
		Correction:  `$\frac{\var(x)}{\var(y)} \times 100$`,
		ReponseExpr: "x/y*100",
		TypeReponse: engine.AnswerTypePercentage,
	}
}

func decreaseExercise() *entity.Exercise {
	return &entity.Exercise{
		Numero:      engine.DecreaseExerciseNumero,
		Categorie:   2,
		Automatisme: "Calculer un taux d'évolution",
		Enonce:      "Un prix passe de {{x}} € à {{y}} €. Quel est le taux de diminution ?",
		Correction:  `$\frac{\var(y)-\var(x)}{\var(x)}$`,
		ReponseExpr: "(y-x)/x*100",
		TypeReponse: engine.AnswerTypePercentage,
	}
}

func isAttemptKey(key string) bool {
	return strings.HasPrefix(key, attemptKeyPrefix) && !strings.HasSuffix(key, ":lock")
}

// ============================================================================
// Recommend
// ============================================================================

func TestPracticeService_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("weakest category wins", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("ListPairs", ctx).Return([]engine.AutomatismCategory{
			{Automatism: "Calculer une proportion", Category: 1},
			{Automatism: "Calculer un taux d'évolution", Category: 2},
		}, nil)
		f.stats.On("CategoryAggregates", ctx, uint(5)).Return(map[int]engine.CategoryAggregate{
			1: {Attempts: 4, Correct: 4},
		}, nil)

		rec, err := f.svc.Recommend(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "Calculer un taux d'évolution", rec.Automatism)
		assert.Equal(t, 0.0, rec.Score)
		f.assertExpectations(t)
	})

	t.Run("empty catalogue", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("ListPairs", ctx).Return([]engine.AutomatismCategory{}, nil)
		f.stats.On("CategoryAggregates", ctx, uint(5)).Return(map[int]engine.CategoryAggregate{}, nil)

		_, err := f.svc.Recommend(ctx, 5)
		assert.ErrorIs(t, err, ErrNoData)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

// ============================================================================
// Start
// ============================================================================

func TestPracticeService_StartByNumero(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t)

	f.exercises.On("GetByNumero", ctx, engine.DecreaseExerciseNumero).Return(decreaseExercise(), nil)
	var stored PendingAttempt
	f.cache.On("SetJSON", ctx, mock.MatchedBy(isAttemptKey), mock.AnythingOfType("service.PendingAttempt"), testAttemptTTL).
		Run(func(args mock.Arguments) { stored = args.Get(2).(PendingAttempt) }).
		Return(nil)

	started, err := f.svc.Start(ctx, 5, StartInput{Numero: engine.DecreaseExerciseNumero})
	require.NoError(t, err)

	assert.NotEmpty(t, started.AttemptID)
	assert.Equal(t, started.AttemptID, stored.ID)
	assert.Equal(t, uint(5), stored.UserID)
	assert.Equal(t, engine.DecreaseExerciseNumero, stored.Numero)
	assert.GreaterOrEqual(t, stored.Binding["x"], stored.Binding["y"], "decrease exercises keep x >= y")
	assert.NotContains(t, started.Statement, "{{")
	assert.True(t, strings.HasSuffix(started.Statement, engine.PercentageHint))
	assert.Empty(t, started.Unresolved)
	assert.Equal(t, f.now.Add(testAttemptTTL), started.ExpiresAt)
	f.assertExpectations(t)
}

func TestPracticeService_StartByAutomatisme(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t)

	f.exercises.On("ListByAutomatismKey", ctx, "calculer une proportion").
		Return([]entity.Exercise{proportionExercise(1), proportionExercise(2)}, nil)
	f.cache.On("SetJSON", ctx, mock.MatchedBy(isAttemptKey), mock.Anything, testAttemptTTL).Return(nil)

	started, err := f.svc.Start(ctx, 5, StartInput{Automatisme: "  Calculer une PROPORTION "})
	require.NoError(t, err)
	assert.Contains(t, []int{1, 2}, started.Exercise.Numero)
	f.assertExpectations(t)
}

func TestPracticeService_StartRecommended(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t)

	f.exercises.On("ListPairs", ctx).Return([]engine.AutomatismCategory{
		{Automatism: "Calculer une proportion", Category: 1},
	}, nil)
	f.stats.On("CategoryAggregates", ctx, uint(5)).Return(map[int]engine.CategoryAggregate{}, nil)
	f.exercises.On("ListByAutomatismKey", ctx, "calculer une proportion").
		Return([]entity.Exercise{proportionExercise(1)}, nil)
	f.cache.On("SetJSON", ctx, mock.MatchedBy(isAttemptKey), mock.Anything, testAttemptTTL).Return(nil)

	started, err := f.svc.Start(ctx, 5, StartInput{})
	require.NoError(t, err)
	assert.Equal(t, 1, started.Exercise.Numero)
	f.assertExpectations(t)
}

func TestPracticeService_StartErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown automatisme", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("ListByAutomatismKey", ctx, "inexistant").Return([]entity.Exercise{}, nil)

		_, err := f.svc.Start(ctx, 5, StartInput{Automatisme: "Inexistant"})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unknown numero", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("GetByNumero", ctx, 404).Return(nil, apperrors.ErrNotFound)

		_, err := f.svc.Start(ctx, 5, StartInput{Numero: 404})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("negative numero", func(t *testing.T) {
		f := newPracticeFixture(t)
		_, err := f.svc.Start(ctx, 5, StartInput{Numero: -1})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("nothing to recommend", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("ListPairs", ctx).Return([]engine.AutomatismCategory{}, nil)
		f.stats.On("CategoryAggregates", ctx, uint(5)).Return(map[int]engine.CategoryAggregate{}, nil)

		_, err := f.svc.Start(ctx, 5, StartInput{})
		assert.ErrorIs(t, err, ErrNoData)
	})
}

// ============================================================================
// Submit
// ============================================================================

func pendingFor(userID uint, numero int, b engine.Binding, startedAt time.Time) PendingAttempt {
	return PendingAttempt{ID: "attempt-1", UserID: userID, Numero: numero, Binding: b, StartedAt: startedAt}
}

func (f *practiceFixture) expectPending(ctx context.Context, p PendingAttempt) {
	f.cache.On("GetJSON", ctx, attemptKeyPrefix+p.ID, mock.AnythingOfType("*service.PendingAttempt")).
		Run(func(args mock.Arguments) { *args.Get(2).(*PendingAttempt) = p }).
		Return(nil)
}

func (f *practiceFixture) expectDiscard(ctx context.Context, id string) {
	f.cache.On("Delete", ctx, attemptKeyPrefix+id).Return(nil)
	f.cache.On("Delete", ctx, attemptKeyPrefix+id+":lock").Return(nil)
}

func TestPracticeService_Submit(t *testing.T) {
	ctx := context.Background()
	exercise := proportionExercise(1)

	tests := []struct {
		name        string
		answer      string
		wantCorrect bool
	}{
		{name: "exact percentage", answer: "75", wantCorrect: true},
		{name: "percentage sign and comma", answer: " 75,0 % ", wantCorrect: true},
		{name: "fraction form", answer: "150/2", wantCorrect: true},
		{name: "wrong value", answer: "70", wantCorrect: false},
		{name: "not a number", answer: "beaucoup", wantCorrect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPracticeFixture(t)
			p := pendingFor(5, 1, engine.Binding{"x": 30, "y": 40}, f.now.Add(-42*time.Second))
			f.expectPending(ctx, p)
			f.cache.On("SetNX", ctx, attemptKeyPrefix+p.ID+":lock", uint(5), attemptLockTTL).Return(true, nil)
			f.exercises.On("GetByNumero", ctx, 1).Return(&exercise, nil)
			f.attempts.On("Upsert", ctx, mock.MatchedBy(func(r *entity.AttemptRecord) bool {
				return r.UserID == 5 && r.ExerciseNumero == 1 && r.ExerciseCategorie == 1 &&
					r.Correct == entity.ScoreFor(tt.wantCorrect) && r.DurationSeconds == 42 && r.LastAttemptAt.Equal(f.now)
			})).Return(nil)
			if tt.wantCorrect {
				f.users.On("AddScore", ctx, uint(5), int64(1)).Return(nil)
			}
			f.expectDiscard(ctx, p.ID)
			stored := &entity.AttemptRecord{UserID: 5, ExerciseNumero: 1, Attempts: 3}
			f.attempts.On("GetByUserAndExercise", ctx, uint(5), 1).Return(stored, nil)

			res, err := f.svc.Submit(ctx, 5, p.ID, tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCorrect, res.Verdict.Correct)
			assert.InDelta(t, 75.0, res.Expected, 1e-9)
			assert.Equal(t, `$\frac{30}{40} \times 100$`, res.Correction)
			assert.Equal(t, 42*time.Second, res.Duration)
			assert.Equal(t, stored, res.Record)
			f.assertExpectations(t)
		})
	}
}

func TestPracticeService_SubmitBoolean(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t)
	exercise := &entity.Exercise{
		Numero:      engine.BooleanExerciseNumero,
		Categorie:   3,
		Automatisme: "Comparer des nombres",
		Enonce:      "{{x}} est-il plus grand que {{y}} ?",
		ReponseExpr: "0",
		TypeReponse: engine.AnswerTypeBoolean,
	}
	p := pendingFor(5, exercise.Numero, engine.Binding{"x": 12, "y": 40}, f.now)
	f.expectPending(ctx, p)
	f.cache.On("SetNX", ctx, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.exercises.On("GetByNumero", ctx, exercise.Numero).Return(exercise, nil)
	f.attempts.On("Upsert", ctx, mock.Anything).Return(nil)
	f.users.On("AddScore", ctx, uint(5), int64(1)).Return(nil)
	f.expectDiscard(ctx, p.ID)
	f.attempts.On("GetByUserAndExercise", ctx, uint(5), exercise.Numero).Return(&entity.AttemptRecord{}, nil)

	res, err := f.svc.Submit(ctx, 5, p.ID, "Faux")
	require.NoError(t, err)
	assert.True(t, res.Verdict.Correct)
	assert.Equal(t, engine.AnswerBoolean, res.Verdict.Kind)
}

func TestPracticeService_SubmitRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("expired attempt", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.cache.On("SetNX", ctx, attemptKeyPrefix+"gone:lock", uint(5), attemptLockTTL).Return(true, nil)
		f.cache.On("GetJSON", ctx, attemptKeyPrefix+"gone", mock.Anything).Return(apperrors.ErrNotFound)
		f.cache.On("Delete", ctx, attemptKeyPrefix+"gone:lock").Return(nil)

		_, err := f.svc.Submit(ctx, 5, "gone", "1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		f.assertExpectations(t)
	})

	t.Run("another user's attempt", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.cache.On("SetNX", ctx, attemptKeyPrefix+"attempt-1:lock", uint(5), attemptLockTTL).Return(true, nil)
		f.expectPending(ctx, pendingFor(6, 1, engine.Binding{"x": 1, "y": 2}, f.now))
		f.cache.On("Delete", ctx, attemptKeyPrefix+"attempt-1:lock").Return(nil)

		_, err := f.svc.Submit(ctx, 5, "attempt-1", "1")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.exercises.AssertNotCalled(t, "GetByNumero", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Delete", ctx, attemptKeyPrefix+"attempt-1")
		f.assertExpectations(t)
	})

	t.Run("already being graded", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.cache.On("SetNX", ctx, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

		_, err := f.svc.Submit(ctx, 5, "attempt-1", "1")
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		f.cache.AssertNotCalled(t, "GetJSON", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("exercise lookup fails releases the lock", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.cache.On("SetNX", ctx, attemptKeyPrefix+"attempt-1:lock", uint(5), attemptLockTTL).Return(true, nil)
		f.expectPending(ctx, pendingFor(5, 1, engine.Binding{"x": 1, "y": 2}, f.now))
		f.exercises.On("GetByNumero", ctx, 1).Return(nil, errors.New("connection reset"))
		f.cache.On("Delete", ctx, attemptKeyPrefix+"attempt-1:lock").Return(nil)

		_, err := f.svc.Submit(ctx, 5, "attempt-1", "1")
		require.Error(t, err)
		f.cache.AssertNotCalled(t, "Delete", ctx, attemptKeyPrefix+"attempt-1")
		f.assertExpectations(t)
	})

	t.Run("answer too long", func(t *testing.T) {
		f := newPracticeFixture(t)
		_, err := f.svc.Submit(ctx, 5, "attempt-1", strings.Repeat("9", maxAnswerLength+1))
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestPracticeService_SubmitCorrectionUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t)
	broken := proportionExercise(1)
	broken.ReponseExpr = "x/(y-y)"

	p := pendingFor(5, 1, engine.Binding{"x": 30, "y": 40}, f.now)
	f.expectPending(ctx, p)
	f.cache.On("SetNX", ctx, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.exercises.On("GetByNumero", ctx, 1).Return(&broken, nil)
	f.expectDiscard(ctx, p.ID)

	_, err := f.svc.Submit(ctx, 5, p.ID, "75")
	assert.ErrorIs(t, err, ErrCorrectionUnavailable)
	assert.ErrorIs(t, err, apperrors.ErrUnprocessable)
	assert.ErrorIs(t, err, engine.ErrEvaluation)
	f.attempts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "AddScore", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

// memoryCache - потокобезопасный кеш в памяти с семантикой SETNX, как у Redis
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
	ops  []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) record(op, key string) {
	c.ops = append(c.ops, op+" "+key)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("SET", key)
	c.data[key] = fmt.Sprint(value)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("GET", key)
	v, ok := c.data[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return v, nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("DEL", key)
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Increment(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("not supported")
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), expiration)
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	v, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return nil
}

func (c *memoryCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return -1, nil
}

func (c *memoryCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("SETNX", key)
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = fmt.Sprint(value)
	return true, nil
}

func TestPracticeService_SubmitTwiceGradesOnce(t *testing.T) {
	ctx := context.Background()
	f := newPracticeFixture(t)
	cache := newMemoryCache()
	f.svc.cacheRepo = cache

	exercise := proportionExercise(1)
	p := pendingFor(5, 1, engine.Binding{"x": 30, "y": 40}, f.now)
	require.NoError(t, cache.SetJSON(ctx, attemptKeyPrefix+p.ID, p, testAttemptTTL))

	inUpsert := make(chan struct{})
	release := make(chan struct{})
	f.exercises.On("GetByNumero", ctx, 1).Return(&exercise, nil)
	f.attempts.On("Upsert", ctx, mock.Anything).
		Run(func(mock.Arguments) {
			close(inUpsert)
			<-release
		}).
		Return(nil).Once()
	f.users.On("AddScore", ctx, uint(5), int64(1)).Return(nil).Once()
	f.attempts.On("GetByUserAndExercise", ctx, uint(5), 1).Return(&entity.AttemptRecord{Attempts: 1}, nil)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = f.svc.Submit(ctx, 5, p.ID, "75")
	}()

	// Первая отправка проверяется; вторая приходит в это время
	<-inUpsert
	_, err := f.svc.Submit(ctx, 5, p.ID, "75")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	// После проверки попытки больше нет
	_, err = f.svc.Submit(ctx, 5, p.ID, "75")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	ok, _ := cache.Exists(ctx, attemptKeyPrefix+p.ID+":lock")
	assert.False(t, ok, "lock must be released")

	f.attempts.AssertNumberOfCalls(t, "Upsert", 1)
	f.users.AssertNumberOfCalls(t, "AddScore", 1)

	// Попытка читается только под блокировкой
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for i, op := range cache.ops {
		if op == "GET "+attemptKeyPrefix+p.ID {
			require.Greater(t, i, 0)
			assert.Equal(t, "SETNX "+attemptKeyPrefix+p.ID+":lock", cache.ops[i-1])
		}
	}
}

// ============================================================================
// SaveResult
// ============================================================================

func TestPracticeService_SaveResult(t *testing.T) {
	ctx := context.Background()
	exercise := proportionExercise(2)

	t.Run("category comes from the exercise", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("GetByNumero", ctx, 2).Return(&exercise, nil)
		f.attempts.On("Upsert", ctx, mock.MatchedBy(func(r *entity.AttemptRecord) bool {
			return r.ExerciseCategorie == 1 && r.Correct == 1 && r.DurationSeconds == 15
		})).Return(nil)
		f.users.On("AddScore", ctx, uint(5), int64(1)).Return(nil)
		stored := &entity.AttemptRecord{ExerciseNumero: 2, Attempts: 1, Correct: 1}
		f.attempts.On("GetByUserAndExercise", ctx, uint(5), 2).Return(stored, nil)

		got, err := f.svc.SaveResult(ctx, 5, ResultInput{Numero: 2, Categorie: 3, Correct: true, DurationSeconds: 15})
		require.NoError(t, err)
		assert.Equal(t, stored, got)
		f.assertExpectations(t)
	})

	t.Run("incorrect result does not score", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("GetByNumero", ctx, 2).Return(&exercise, nil)
		f.attempts.On("Upsert", ctx, mock.Anything).Return(nil)
		f.attempts.On("GetByUserAndExercise", ctx, uint(5), 2).Return(&entity.AttemptRecord{}, nil)

		_, err := f.svc.SaveResult(ctx, 5, ResultInput{Numero: 2})
		require.NoError(t, err)
		f.users.AssertNotCalled(t, "AddScore", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		f := newPracticeFixture(t)
		_, err := f.svc.SaveResult(ctx, 5, ResultInput{})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		_, err = f.svc.SaveResult(ctx, 5, ResultInput{Numero: 2, DurationSeconds: -1})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unknown exercise", func(t *testing.T) {
		f := newPracticeFixture(t)
		f.exercises.On("GetByNumero", ctx, 99).Return(nil, apperrors.ErrNotFound)
		_, err := f.svc.SaveResult(ctx, 5, ResultInput{Numero: 99})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
