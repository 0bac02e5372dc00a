package entity

import (
	"gorm.io/gorm"

	"github.com/yourusername/automatismes-api/internal/pkg/textnorm"
)

// Method - "fiche méthode": краткое объяснение приема с примером
type Method struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Automatisme    string `gorm:"size:255;not null" json:"automatisme"`
	AutomatismeKey string `gorm:"size:255;not null;index" json:"-"`
	Titre          string `gorm:"size:255;not null" json:"titre"`
	Contenu        string `gorm:"type:text;not null" json:"contenu"`
	Exemple        string `gorm:"type:text;not null;default:''" json:"exemple"`
}

// TableName определяет имя таблицы для GORM
func (Method) TableName() string {
	return "methods"
}

// BeforeSave пересчитывает нормализованный ключ automatisme
func (m *Method) BeforeSave(tx *gorm.DB) error {
	m.AutomatismeKey = textnorm.Key(m.Automatisme)
	return nil
}
