package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/enums"
)

// ChatMessage is a single entry in a simulated WhatsApp conversation.
type ChatMessage struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	ConversationID uuid.UUID        `gorm:"column:conversation_id;type:uuid;not null;index"`
	Sender         enums.ChatSender `gorm:"column:sender;not null"`
	Content        string           `gorm:"column:content;not null"`
	SentAt         time.Time        `gorm:"column:sent_at;not null;index"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns an id when none is provided.
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
