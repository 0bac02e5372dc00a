package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/domain/repository"
	apperrors "github.com/yourusername/automatismes-api/internal/pkg/errors"
	"github.com/yourusername/automatismes-api/internal/report"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

// CategoryStatView - статистика категории для клиента
type CategoryStatView struct {
	Category int    `json:"category"`
	Label    string `json:"label"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Rate     int    `json:"rate"`
}

// StatsService считает успешность по категориям и строит выгрузки
type StatsService struct {
	statsRepo repository.StatsRepository
	now       func() time.Time
}

// NewStatsService создает новый сервис статистики и возвращает ошибку при проблемах
func NewStatsService(statsRepo repository.StatsRepository) (*StatsService, error) {
	if statsRepo == nil {
		return nil, fmt.Errorf("StatsRepository is required for StatsService")
	}
	return &StatsService{statsRepo: statsRepo, now: time.Now}, nil
}

// Stats возвращает статистику пользователя, упорядоченную по категории
func (s *StatsService) Stats(ctx context.Context, userID uint) ([]CategoryStatView, error) {
	stats, err := s.statsRepo.CategoryStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	views := make([]CategoryStatView, 0, len(stats))
	for _, st := range stats {
		views = append(views, CategoryStatView{
			Category: st.Category,
			Label:    entity.CategoryLabel(st.Category),
			Total:    st.Attempts,
			Correct:  st.Correct,
			Rate:     report.Rate(st.Correct, st.Attempts),
		})
	}
	return views, nil
}

// Export строит "Rapport de révision" в формате pdf или xlsx
func (s *StatsService) Export(ctx context.Context, session auth.Session, format string) (*report.File, error) {
	views, err := s.Stats(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	r := report.Report{Username: session.Username, GeneratedAt: s.now()}
	for _, v := range views {
		r.Rows = append(r.Rows, report.Row{
			Category: v.Category,
			Label:    v.Label,
			Total:    v.Total,
			Correct:  v.Correct,
			Rate:     v.Rate,
		})
	}

	file, err := report.Render(format, r)
	if err != nil {
		if errors.Is(err, report.ErrUnsupportedFormat) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return nil, err
	}
	return file, nil
}
