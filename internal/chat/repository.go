package chat

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
)

// Repository wires conversation persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateConversation inserts a thread with any initial messages.
func (r *Repository) CreateConversation(ctx context.Context, conversation *models.Conversation) (*models.Conversation, error) {
	if err := r.db.WithContext(ctx).Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

// FindConversation loads a thread with its messages in send order.
func (r *Repository) FindConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("sent_at ASC") }).
		First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListConversations returns threads by most recent activity.
func (r *Repository) ListConversations(ctx context.Context, limit int) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(tx *gorm.DB) *gorm.DB { return tx.Order("sent_at ASC") }).
		Order("last_message_at DESC").
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// AppendMessage stores a message and bumps the thread's activity timestamp.
func (r *Repository) AppendMessage(ctx context.Context, message *models.ChatMessage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Create(message).Error; err != nil {
		return err
	}
	return tx.Model(&models.Conversation{}).
		Where("id = ?", message.ConversationID).
		Update("last_message_at", message.SentAt).Error
}

// SaveConversation persists mutable thread fields.
func (r *Repository) SaveConversation(ctx context.Context, conversation *models.Conversation) error {
	return r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("id = ?", conversation.ID).
		Updates(map[string]any{
			"status":            conversation.Status,
			"converted":         conversation.Converted,
			"order_value_cents": conversation.OrderValueCents,
		}).Error
}

// Stats aggregates the chat header numbers.
type Stats struct {
	Total     int64
	Active    int64
	Converted int64
}

// CountConversations returns the chat tab counters.
func (r *Repository) CountConversations(ctx context.Context) (*Stats, error) {
	var stats Stats
	tx := r.db.WithContext(ctx).Model(&models.Conversation{})

	if err := tx.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := tx.Session(&gorm.Session{}).Where("status = ?", enums.ConversationStatusActive).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := tx.Session(&gorm.Session{}).Where("converted = ?", true).Count(&stats.Converted).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
