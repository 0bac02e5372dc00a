package entity

import (
	"gorm.io/gorm"

	"github.com/yourusername/automatismes-api/internal/engine"
	"github.com/yourusername/automatismes-api/internal/pkg/textnorm"
)

// Категории упражнений
const (
	CategoryProportions = 1
	CategoryEvolutions  = 2
	CategoryCalculation = 3
)

// CategoryLabel возвращает подпись категории для каталога и статистики
func CategoryLabel(categorie int) string {
	switch categorie {
	case CategoryProportions:
		return "Proportions et pourcentages"
	case CategoryEvolutions:
		return "Évolutions et variations"
	case CategoryCalculation:
		return "Calcul numérique et algébrique"
	default:
		return "Autres"
	}
}

// Exercise - шаблон упражнения. Справочные данные, пишутся только миграциями и импортом.
type Exercise struct {
	Numero         int    `gorm:"primaryKey;autoIncrement:false" json:"numero"`
	Categorie      int    `gorm:"not null;index" json:"categorie"`
	Automatisme    string `gorm:"size:255;not null" json:"automatisme"`
	AutomatismeKey string `gorm:"size:255;not null;index" json:"-"`
	Enonce         string `gorm:"type:text;not null" json:"enonce"`
	Correction     string `gorm:"type:text;not null;default:''" json:"correction"`
	ReponseExpr    string `gorm:"size:255;not null" json:"reponse_expr"`
	TypeReponse    string `gorm:"size:30;not null;default:''" json:"type_reponse,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Exercise) TableName() string {
	return "exercises"
}

// BeforeSave пересчитывает нормализованный ключ automatisme
func (e *Exercise) BeforeSave(tx *gorm.DB) error {
	e.AutomatismeKey = textnorm.Key(e.Automatisme)
	return nil
}

// Template переводит запись в шаблон движка
func (e *Exercise) Template() engine.Template {
	return engine.Template{
		Numero:     e.Numero,
		Category:   e.Categorie,
		Automatism: e.Automatisme,
		Statement:  e.Enonce,
		Correction: e.Correction,
		AnswerExpr: e.ReponseExpr,
		AnswerType: e.TypeReponse,
	}
}
