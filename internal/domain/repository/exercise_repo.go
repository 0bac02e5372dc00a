package repository

import (
	"context"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/engine"
)

// ExerciseRepository определяет методы для чтения и импорта шаблонов упражнений
type ExerciseRepository interface {
	// ListPairs возвращает уникальные пары (automatisme, categorie), упорядоченные по categorie, automatisme
	ListPairs(ctx context.Context) ([]engine.AutomatismCategory, error)
	// ListByAutomatismKey возвращает шаблоны по нормализованному ключу automatisme
	ListByAutomatismKey(ctx context.Context, key string) ([]entity.Exercise, error)
	GetByNumero(ctx context.Context, numero int) (*entity.Exercise, error)
	ListAll(ctx context.Context) ([]entity.Exercise, error)
	// Upsert вставляет или обновляет шаблон, возвращает true для новой записи
	Upsert(ctx context.Context, exercise *entity.Exercise) (bool, error)
}

// MethodRepository определяет методы для работы с fiches méthode
type MethodRepository interface {
	ListByAutomatismKey(ctx context.Context, key string) ([]entity.Method, error)
	// Upsert ищет запись по (automatisme_key, titre), возвращает true для новой записи
	Upsert(ctx context.Context, method *entity.Method) (bool, error)
}
