package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is one menu entry of the restaurant catalog.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	PriceCents  int       `gorm:"column:price_cents;not null"`
	Category    string    `gorm:"column:category;not null;index"`
	Image       *string   `gorm:"column:image"`
	Popular     bool      `gorm:"column:popular;not null;default:false"`
	Available   bool      `gorm:"column:available;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an id when none is provided (SQLite has no uuid default).
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
