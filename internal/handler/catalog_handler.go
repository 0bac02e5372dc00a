package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/automatismes-api/internal/domain/entity"
	"github.com/yourusername/automatismes-api/internal/service"
)

// CatalogUseCase - чтение каталога упражнений
type CatalogUseCase interface {
	Automatisms(ctx context.Context) (service.Catalog, error)
	Exercises(ctx context.Context, automatisme string) ([]entity.Exercise, error)
	Methods(ctx context.Context, automatisme string) ([]entity.Method, error)
}

// CatalogHandler отдает automatismes, шаблоны и fiches méthode
type CatalogHandler struct {
	catalog CatalogUseCase
}

func NewCatalogHandler(catalog CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GetAutomatisms возвращает automatismes, сгруппированные по категориям
func (h *CatalogHandler) GetAutomatisms(c *gin.Context) {
	catalog, err := h.catalog.Automatisms(c.Request.Context())
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

// GetExercises возвращает исходные шаблоны automatisme
func (h *CatalogHandler) GetExercises(c *gin.Context) {
	exercises, err := h.catalog.Exercises(c.Request.Context(), c.Param("automatisme"))
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// GetMethods возвращает fiches méthode automatisme
func (h *CatalogHandler) GetMethods(c *gin.Context) {
	methods, err := h.catalog.Methods(c.Request.Context(), c.Param("automatisme"))
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, methods)
}
