// Package scheduler запускает фоновые задачи API: повторную отправку отзывов,
// прогрев каталога и проверку шаблонов.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yourusername/automatismes-api/internal/config"
	"github.com/yourusername/automatismes-api/internal/engine"
)

const jobTimeout = 2 * time.Minute

// FeedbackRetrier повторно отправляет неотправленные отзывы
type FeedbackRetrier interface {
	RetryPending(ctx context.Context) (int, error)
}

// CatalogWarmer пересобирает кеш каталога
type CatalogWarmer interface {
	Warm(ctx context.Context) error
}

// TemplateLinter проверяет шаблоны упражнений
type TemplateLinter interface {
	Lint(ctx context.Context) ([]engine.Finding, error)
}

// Scheduler управляет периодическими задачами
type Scheduler struct {
	scheduler *gocron.Scheduler
	cfg       config.SchedulerConfig
	feedback  FeedbackRetrier
	catalog   CatalogWarmer
	linter    TemplateLinter

	ctx    context.Context
	cancel context.CancelFunc
}

// New создает планировщик; nil-зависимости отключают соответствующие задачи
func New(cfg config.SchedulerConfig, feedback FeedbackRetrier, catalog CatalogWarmer, linter TemplateLinter) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// Задача не запускается повторно, пока не закончился предыдущий запуск
	s.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		cfg:       cfg,
		feedback:  feedback,
		catalog:   catalog,
		linter:    linter,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start регистрирует задачи и запускает их в фоне
func (s *Scheduler) Start() error {
	if s.feedback != nil && s.cfg.FeedbackRetryInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.FeedbackRetryInterval).Tag("feedback-retry").Do(s.RetryFeedback); err != nil {
			return fmt.Errorf("failed to schedule feedback retry: %w", err)
		}
	}
	if s.catalog != nil && s.cfg.CatalogRefreshInterval > 0 {
		if _, err := s.scheduler.Every(s.cfg.CatalogRefreshInterval).Tag("catalog-refresh").Do(s.WarmCatalog); err != nil {
			return fmt.Errorf("failed to schedule catalog refresh: %w", err)
		}
	}
	if s.linter != nil && s.cfg.LintOnStart {
		if _, err := s.scheduler.Every(1).Day().LimitRunsTo(1).Tag("template-lint").Do(s.LintTemplates); err != nil {
			return fmt.Errorf("failed to schedule template lint: %w", err)
		}
	}

	log.Printf("[Scheduler] Запуск, задач: %d", s.scheduler.Len())
	s.scheduler.StartAsync()
	return nil
}

// Stop останавливает задачи и отменяет текущие запуски
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
	log.Println("[Scheduler] Остановлен")
}

// RetryFeedback - задача повторной отправки отзывов
func (s *Scheduler) RetryFeedback() {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	sent, err := s.feedback.RetryPending(ctx)
	if err != nil {
		log.Printf("[Scheduler] Ошибка повторной отправки отзывов: %v", err)
		return
	}
	if sent > 0 {
		log.Printf("[Scheduler] Отправлено отзывов: %d", sent)
	}
}

// WarmCatalog - задача прогрева каталога
func (s *Scheduler) WarmCatalog() {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	if err := s.catalog.Warm(ctx); err != nil {
		log.Printf("[Scheduler] Ошибка прогрева каталога: %v", err)
	}
}

// LintTemplates - разовая проверка шаблонов при старте
func (s *Scheduler) LintTemplates() {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	findings, err := s.linter.Lint(ctx)
	if err != nil {
		log.Printf("[Scheduler] Ошибка проверки шаблонов: %v", err)
		return
	}
	for _, f := range findings {
		log.Printf("[Scheduler] Шаблон %d: %s (%s)", f.Numero, f.Message, f.Code)
	}
	log.Printf("[Scheduler] Проверка шаблонов завершена, замечаний: %d", len(findings))
}
