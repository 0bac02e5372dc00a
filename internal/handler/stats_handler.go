package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/automatismes-api/internal/report"
	"github.com/yourusername/automatismes-api/internal/service"
	"github.com/yourusername/automatismes-api/pkg/auth"
)

// StatsUseCase - статистика пользователя и ее выгрузка
type StatsUseCase interface {
	Stats(ctx context.Context, userID uint) ([]service.CategoryStatView, error)
	Export(ctx context.Context, session auth.Session, format string) (*report.File, error)
}

// StatsHandler отдает статистику по категориям
type StatsHandler struct {
	stats StatsUseCase
}

func NewStatsHandler(stats StatsUseCase) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// GetStats возвращает успехи по категориям
func (h *StatsHandler) GetStats(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	views, err := h.stats.Stats(c.Request.Context(), session.UserID)
	if err != nil {
		respondError(c, "StatsHandler", err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// ExportStats отдает "Rapport de révision" файлом (format=pdf|xlsx)
func (h *StatsHandler) ExportStats(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	file, err := h.stats.Export(c.Request.Context(), session, c.DefaultQuery("format", report.FormatPDF))
	if err != nil {
		respondError(c, "StatsHandler", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
