package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/enums"
)

// Conversation is one simulated WhatsApp thread with a customer.
type Conversation struct {
	ID              uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	CustomerName    string                   `gorm:"column:customer_name;not null"`
	CustomerPhone   string                   `gorm:"column:customer_phone;not null"`
	Status          enums.ConversationStatus `gorm:"column:status;not null;default:'active';index"`
	Converted       bool                     `gorm:"column:converted;not null;default:false"`
	OrderValueCents *int                     `gorm:"column:order_value_cents"`
	Messages        []ChatMessage            `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
	LastMessageAt   time.Time                `gorm:"column:last_message_at;not null;index"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an id when none is provided.
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
