package chat

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	silent := gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent})
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: silent, SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := conn.AutoMigrate(&models.Conversation{}, &models.ChatMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func newTestChat(t *testing.T) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	svc, err := NewService(NewRepository(newTestDB(t)), logg, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestResponderKeywordRouting(t *testing.T) {
	t.Parallel()

	r := newResponder()
	cases := []struct {
		message  string
		fragment string
	}{
		{"Quanto custa a pizza?", "R$ 45,90"},
		{"qual o PREÇO do combo", "R$ 45,90"},
		{"vocês fazem entrega?", "taxa de entrega"},
		{"tem delivery ai?", "taxa de entrega"},
		{"qual o horário de funcionamento", "18h às 23h30"},
		{"obrigado!", "Bom apetite"},
		{"valeu demais", "Bom apetite"},
		{"oi, tudo bem?", "cardápio digital"},
	}
	for _, tc := range cases {
		reply := r.Reply(tc.message)
		if !strings.Contains(reply, tc.fragment) {
			t.Fatalf("message %q: expected reply containing %q, got %q", tc.message, tc.fragment, reply)
		}
	}
}

func TestStartConversationWithFirstMessage(t *testing.T) {
	t.Parallel()

	svc := newTestChat(t)
	dto, err := svc.StartConversation(context.Background(), StartConversationInput{
		CustomerName:  "Maria Santos",
		CustomerPhone: "(11) 97777-6666",
		Message:       "Oi, quanto custa a margherita?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dto.Messages) != 2 {
		t.Fatalf("expected customer message plus bot reply, got %d messages", len(dto.Messages))
	}
	if dto.Messages[0].Sender != "customer" || dto.Messages[1].Sender != "bot" {
		t.Fatalf("unexpected senders: %+v", dto.Messages)
	}
	if !strings.Contains(dto.Messages[1].Content, "R$ 45,90") {
		t.Fatalf("expected price reply, got %q", dto.Messages[1].Content)
	}
}

func TestStartConversationValidation(t *testing.T) {
	t.Parallel()

	svc := newTestChat(t)
	_, err := svc.StartConversation(context.Background(), StartConversationInput{CustomerName: "", CustomerPhone: "1"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSendMessageAppendsExchange(t *testing.T) {
	t.Parallel()

	svc := newTestChat(t)
	dto, err := svc.StartConversation(context.Background(), StartConversationInput{
		CustomerName:  "Pedro",
		CustomerPhone: "(11) 96666-5555",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.SendMessage(context.Background(), dto.ID, "vocês entregam no centro?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(updated.Messages))
	}

	updated, err = svc.SendMessage(context.Background(), dto.ID, "obrigado")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(updated.Messages))
	}
}

func TestSendMessageToClosedConversation(t *testing.T) {
	t.Parallel()

	svc := newTestChat(t)
	dto, err := svc.StartConversation(context.Background(), StartConversationInput{
		CustomerName:  "Ana",
		CustomerPhone: "(11) 95555-4444",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Complete(context.Background(), dto.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.SendMessage(context.Background(), dto.ID, "ainda dá tempo?")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestCompleteMarksConversion(t *testing.T) {
	t.Parallel()

	svc := newTestChat(t)
	dto, err := svc.StartConversation(context.Background(), StartConversationInput{
		CustomerName:  "Carlos",
		CustomerPhone: "(11) 94444-3333",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value := 5180
	closed, err := svc.Complete(context.Background(), dto.ID, &value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closed.Status != "completed" || !closed.Converted {
		t.Fatalf("unexpected state: %+v", closed)
	}
	if closed.OrderValue == nil || int(*closed.OrderValue) != 5180 {
		t.Fatalf("unexpected order value: %+v", closed.OrderValue)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	svc := newTestChat(t)
	first, err := svc.StartConversation(context.Background(), StartConversationInput{CustomerName: "A", CustomerPhone: "1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.StartConversation(context.Background(), StartConversationInput{CustomerName: "B", CustomerPhone: "2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value := 1000
	if _, err := svc.Complete(context.Background(), first.ID, &value); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 2 || stats.Active != 1 || stats.Converted != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Rate != 0.5 {
		t.Fatalf("expected rate 0.5, got %f", stats.Rate)
	}
}

func TestGetMissingConversation(t *testing.T) {
	t.Parallel()

	svc := newTestChat(t)
	_, err := svc.Get(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
