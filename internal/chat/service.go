package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

const defaultListLimit = 50

// Service drives the simulated WhatsApp attendant. Customer messages are
// stored and answered by the keyword responder after a typing delay.
type Service interface {
	StartConversation(ctx context.Context, input StartConversationInput) (*ConversationDTO, error)
	SendMessage(ctx context.Context, conversationID uuid.UUID, content string) (*ConversationDTO, error)
	Get(ctx context.Context, conversationID uuid.UUID) (*ConversationDTO, error)
	List(ctx context.Context) ([]ConversationDTO, error)
	Complete(ctx context.Context, conversationID uuid.UUID, orderValueCents *int) (*ConversationDTO, error)
	Stats(ctx context.Context) (*StatsDTO, error)
}

// StartConversationInput opens a new thread.
type StartConversationInput struct {
	CustomerName  string
	CustomerPhone string
	Message       string
}

// MessageDTO is one bubble of a thread.
type MessageDTO struct {
	ID      uuid.UUID `json:"id"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sentAt"`
}

// ConversationDTO is the API projection of a thread.
type ConversationDTO struct {
	ID            uuid.UUID    `json:"id"`
	CustomerName  string       `json:"customerName"`
	CustomerPhone string       `json:"customerPhone"`
	Status        string       `json:"status"`
	Converted     bool         `json:"converted"`
	OrderValue    *types.Cents `json:"orderValue,omitempty"`
	Messages      []MessageDTO `json:"messages"`
	LastMessageAt time.Time    `json:"lastMessageAt"`
}

// StatsDTO carries the chat tab counters.
type StatsDTO struct {
	Total     int64   `json:"total"`
	Active    int64   `json:"active"`
	Converted int64   `json:"converted"`
	Rate      float64 `json:"conversionRate"`
}

type service struct {
	repo         *Repository
	logger       *logger.Logger
	responder    *responder
	replyLatency time.Duration

	now func() time.Time
}

// NewService wires the chat service.
func NewService(repo *Repository, logg *logger.Logger, replyLatency time.Duration) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{
		repo:         repo,
		logger:       logg,
		responder:    newResponder(),
		replyLatency: replyLatency,
		now:          time.Now,
	}, nil
}

func (s *service) StartConversation(ctx context.Context, input StartConversationInput) (*ConversationDTO, error) {
	if strings.TrimSpace(input.CustomerName) == "" || strings.TrimSpace(input.CustomerPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and phone are required")
	}

	now := s.now()
	conversation := &models.Conversation{
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Status:        enums.ConversationStatusActive,
		LastMessageAt: now,
	}
	if _, err := s.repo.CreateConversation(ctx, conversation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create conversation")
	}

	if strings.TrimSpace(input.Message) != "" {
		return s.SendMessage(ctx, conversation.ID, input.Message)
	}
	return s.Get(ctx, conversation.ID)
}

// SendMessage appends the customer message, waits the simulated typing delay
// and appends the bot answer. The updated thread is returned.
func (s *service) SendMessage(ctx context.Context, conversationID uuid.UUID, content string) (*ConversationDTO, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message content is required")
	}

	conversation, err := s.findConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.Status != enums.ConversationStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "conversation is closed")
	}

	if err := s.repo.AppendMessage(ctx, &models.ChatMessage{
		ConversationID: conversationID,
		Sender:         enums.ChatSenderCustomer,
		Content:        content,
		SentAt:         s.now(),
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store customer message")
	}

	if err := s.simulateTyping(ctx); err != nil {
		return nil, err
	}

	if err := s.repo.AppendMessage(ctx, &models.ChatMessage{
		ConversationID: conversationID,
		Sender:         enums.ChatSenderBot,
		Content:        s.responder.Reply(content),
		SentAt:         s.now(),
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store bot reply")
	}

	return s.Get(ctx, conversationID)
}

func (s *service) Get(ctx context.Context, conversationID uuid.UUID) (*ConversationDTO, error) {
	conversation, err := s.findConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	dto := toConversationDTO(*conversation)
	return &dto, nil
}

func (s *service) List(ctx context.Context) ([]ConversationDTO, error) {
	conversations, err := s.repo.ListConversations(ctx, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list conversations")
	}

	dtos := make([]ConversationDTO, 0, len(conversations))
	for _, conversation := range conversations {
		dtos = append(dtos, toConversationDTO(conversation))
	}
	return dtos, nil
}

// Complete closes a thread, optionally marking it as converted into an order.
func (s *service) Complete(ctx context.Context, conversationID uuid.UUID, orderValueCents *int) (*ConversationDTO, error) {
	conversation, err := s.findConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	conversation.Status = enums.ConversationStatusCompleted
	if orderValueCents != nil {
		if *orderValueCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order value must be non-negative")
		}
		conversation.Converted = true
		conversation.OrderValueCents = orderValueCents
	}

	if err := s.repo.SaveConversation(ctx, conversation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "close conversation")
	}
	return s.Get(ctx, conversationID)
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.repo.CountConversations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count conversations")
	}

	dto := &StatsDTO{Total: stats.Total, Active: stats.Active, Converted: stats.Converted}
	if stats.Total > 0 {
		dto.Rate = float64(stats.Converted) / float64(stats.Total)
	}
	return dto, nil
}

func (s *service) findConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conversation, err := s.repo.FindConversation(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "conversation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load conversation")
	}
	return conversation, nil
}

func (s *service) simulateTyping(ctx context.Context) error {
	if s.replyLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.replyLatency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func toConversationDTO(conversation models.Conversation) ConversationDTO {
	dto := ConversationDTO{
		ID:            conversation.ID,
		CustomerName:  conversation.CustomerName,
		CustomerPhone: conversation.CustomerPhone,
		Status:        conversation.Status.String(),
		Converted:     conversation.Converted,
		Messages:      make([]MessageDTO, 0, len(conversation.Messages)),
		LastMessageAt: conversation.LastMessageAt,
	}
	if conversation.OrderValueCents != nil {
		value := types.Cents(*conversation.OrderValueCents)
		dto.OrderValue = &value
	}
	for _, message := range conversation.Messages {
		dto.Messages = append(dto.Messages, MessageDTO{
			ID:      message.ID,
			Sender:  message.Sender.String(),
			Content: message.Content,
			SentAt:  message.SentAt,
		})
	}
	return dto
}
