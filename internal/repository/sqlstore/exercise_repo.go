package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/engine"
	"github.com/yourusername/automatismes-api/internal/pkg/textnorm"
)

// ExerciseRepo реализует repository.ExerciseRepository
type ExerciseRepo struct {
	db *gorm.DB
}

// NewExerciseRepo создает новый репозиторий шаблонов упражнений
func NewExerciseRepo(db *gorm.DB) *ExerciseRepo {
	return &ExerciseRepo{db: db}
}

// ListPairs возвращает уникальные пары (automatisme, categorie)
func (r *ExerciseRepo) ListPairs(ctx context.Context) ([]engine.AutomatismCategory, error) {
	var rows []struct {
		Automatisme string
		Categorie   int
	}
	err := r.db.WithContext(ctx).
		Model(&entity.Exercise{}).
		Distinct("automatisme", "categorie").
		Order("categorie, automatisme").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	pairs := make([]engine.AutomatismCategory, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, engine.AutomatismCategory{Automatism: row.Automatisme, Category: row.Categorie})
	}
	return pairs, nil
}

// ListByAutomatismKey возвращает шаблоны automatisme по нормализованному ключу
func (r *ExerciseRepo) ListByAutomatismKey(ctx context.Context, key string) ([]entity.Exercise, error) {
	var exercises []entity.Exercise
	err := r.db.WithContext(ctx).
		Where("automatisme_key = ?", key).
		Order("numero").
		Find(&exercises).Error
	return exercises, err
}

// GetByNumero возвращает шаблон по номеру
func (r *ExerciseRepo) GetByNumero(ctx context.Context, numero int) (*entity.Exercise, error) {
	var exercise entity.Exercise
	if err := r.db.WithContext(ctx).First(&exercise, numero).Error; err != nil {
		return nil, notFound(err)
	}
	return &exercise, nil
}

// ListAll возвращает все шаблоны по порядку номеров
func (r *ExerciseRepo) ListAll(ctx context.Context) ([]entity.Exercise, error) {
	var exercises []entity.Exercise
	err := r.db.WithContext(ctx).Order("numero").Find(&exercises).Error
	return exercises, err
}

// Upsert вставляет новый шаблон или перезаписывает существующий с тем же номером
func (r *ExerciseRepo) Upsert(ctx context.Context, exercise *entity.Exercise) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Exercise
		err := tx.First(&existing, exercise.Numero).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(exercise).Error
		case err != nil:
			return err
		}
		return tx.Save(exercise).Error
	})
	return created, err
}

// MethodRepo реализует repository.MethodRepository
type MethodRepo struct {
	db *gorm.DB
}

// NewMethodRepo создает новый репозиторий fiches méthode
func NewMethodRepo(db *gorm.DB) *MethodRepo {
	return &MethodRepo{db: db}
}

// ListByAutomatismKey возвращает fiches méthode automatisme
func (r *MethodRepo) ListByAutomatismKey(ctx context.Context, key string) ([]entity.Method, error) {
	var methods []entity.Method
	err := r.db.WithContext(ctx).
		Where("automatisme_key = ?", key).
		Order("id").
		Find(&methods).Error
	return methods, err
}

// Upsert ищет fiche по (automatisme_key, titre) и обновляет ее, либо создает новую
func (r *MethodRepo) Upsert(ctx context.Context, method *entity.Method) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Method
		err := tx.Where("automatisme_key = ? AND titre = ?", textnorm.Key(method.Automatisme), method.Titre).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			method.ID = 0
			return tx.Create(method).Error
		case err != nil:
			return err
		}
		method.ID = existing.ID
		return tx.Save(method).Error
	})
	return created, err
}
