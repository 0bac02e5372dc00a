package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/domain/repository"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/internal/pkg/textnorm"
)

const catalogCacheKey = "catalog:automatismes"

// Catalog - automatismes, сгруппированные по подписи категории
type Catalog map[string][]string

// CatalogService отдает каталог automatismes, шаблоны и fiches méthode
type CatalogService struct {
	exerciseRepo repository.ExerciseRepository
	methodRepo   repository.MethodRepository
	cacheRepo    repository.CacheRepository
	cacheTTL     time.Duration
}

// NewCatalogService создает новый сервис каталога и возвращает ошибку при проблемах
func NewCatalogService(
	exerciseRepo repository.ExerciseRepository,
	methodRepo repository.MethodRepository,
	cacheRepo repository.CacheRepository,
	cacheTTL time.Duration,
) (*CatalogService, error) {
	if exerciseRepo == nil {
		return nil, fmt.Errorf("ExerciseRepository is required for CatalogService")
	}
	if methodRepo == nil {
		return nil, fmt.Errorf("MethodRepository is required for CatalogService")
	}
	if cacheRepo == nil {
		return nil, fmt.Errorf("CacheRepository is required for CatalogService")
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &CatalogService{
		exerciseRepo: exerciseRepo,
		methodRepo:   methodRepo,
		cacheRepo:    cacheRepo,
		cacheTTL:     cacheTTL,
	}, nil
}

// Automatisms возвращает каталог, сначала из кеша
func (s *CatalogService) Automatisms(ctx context.Context) (Catalog, error) {
	var cached Catalog
	err := s.cacheRepo.GetJSON(ctx, catalogCacheKey, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[CatalogService] Ошибка чтения кеша каталога: %v", err)
	}

	return s.rebuild(ctx)
}

// Warm пересобирает каталог и кладет его в кеш
func (s *CatalogService) Warm(ctx context.Context) error {
	_, err := s.rebuild(ctx)
	return err
}

// Invalidate удаляет каталог из кеша (после импорта шаблонов)
func (s *CatalogService) Invalidate(ctx context.Context) error {
	return s.cacheRepo.Delete(ctx, catalogCacheKey)
}

func (s *CatalogService) rebuild(ctx context.Context) (Catalog, error) {
	pairs, err := s.exerciseRepo.ListPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list automatisms: %w", err)
	}

	catalog := make(Catalog)
	seen := make(map[string]bool)
	for _, p := range pairs {
		if p.Automatism == "" {
			continue
		}
		label := entity.CategoryLabel(p.Category)
		if seen[label+"\x00"+p.Automatism] {
			continue
		}
		seen[label+"\x00"+p.Automatism] = true
		catalog[label] = append(catalog[label], p.Automatism)
	}

	if err := s.cacheRepo.SetJSON(ctx, catalogCacheKey, catalog, s.cacheTTL); err != nil {
		log.Printf("[CatalogService] Не удалось сохранить каталог в кеш: %v", err)
	}
	return catalog, nil
}

// Exercises возвращает шаблоны automatisme; сравнение по нормализованной подписи
func (s *CatalogService) Exercises(ctx context.Context, automatisme string) ([]entity.Exercise, error) {
	key := textnorm.Key(automatisme)
	if key == "" {
		return nil, fmt.Errorf("%w: automatisme is required", apperrors.ErrValidation)
	}
	exercises, err := s.exerciseRepo.ListByAutomatismKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	if len(exercises) == 0 {
		return nil, fmt.Errorf("%w: no exercises for automatisme %q", apperrors.ErrNotFound, automatisme)
	}
	return exercises, nil
}

// Methods возвращает fiches méthode automatisme
func (s *CatalogService) Methods(ctx context.Context, automatisme string) ([]entity.Method, error) {
	key := textnorm.Key(automatisme)
	if key == "" {
		return nil, fmt.Errorf("%w: automatisme is required", apperrors.ErrValidation)
	}
	methods, err := s.methodRepo.ListByAutomatismKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list methods: %w", err)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: no method for automatisme %q", apperrors.ErrNotFound, automatisme)
	}
	return methods, nil
}
