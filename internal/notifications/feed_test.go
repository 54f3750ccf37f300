package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

func newTestFeed(t *testing.T) *Feed {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	feed, err := NewFeed(logg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return feed
}

func testOrder(reference string, total int) *models.Order {
	return &models.Order{
		Reference:    reference,
		CustomerName: "João Silva",
		TotalCents:   total,
		Status:       enums.OrderStatusPreparing,
	}
}

func TestOrderEventsProduceEntries(t *testing.T) {
	t.Parallel()

	feed := newTestFeed(t)
	ctx := context.Background()

	feed.OrderCreated(ctx, testOrder("ORD-1", 5180))
	feed.OrderStatusChanged(ctx, testOrder("ORD-1", 5180), enums.OrderStatusPending)

	entries := feed.List(ctx)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Kind != enums.NotificationOrderStatusChanged && entries[1].Kind != enums.NotificationOrderStatusChanged {
		t.Fatalf("expected a status-change entry: %+v", entries)
	}
	if feed.UnreadCount(ctx) != 2 {
		t.Fatalf("expected 2 unread, got %d", feed.UnreadCount(ctx))
	}
}

func TestListIsNewestFirst(t *testing.T) {
	t.Parallel()

	feed := newTestFeed(t)
	base := time.Now()
	step := 0
	feed.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Second)
	}

	ctx := context.Background()
	feed.OrderCreated(ctx, testOrder("ORD-1", 100))
	feed.OrderCreated(ctx, testOrder("ORD-2", 200))

	entries := feed.List(ctx)
	if entries[0].OrderRef != "ORD-2" {
		t.Fatalf("expected newest first, got %s", entries[0].OrderRef)
	}
}

func TestMarkRead(t *testing.T) {
	t.Parallel()

	feed := newTestFeed(t)
	ctx := context.Background()
	feed.OrderCreated(ctx, testOrder("ORD-1", 100))

	id := feed.List(ctx)[0].ID
	if err := feed.MarkRead(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.UnreadCount(ctx) != 0 {
		t.Fatalf("expected 0 unread, got %d", feed.UnreadCount(ctx))
	}

	err := feed.MarkRead(ctx, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkAllReadAndTrim(t *testing.T) {
	t.Parallel()

	feed := newTestFeed(t)
	ctx := context.Background()
	for i := 0; i < maxFeedSize+10; i++ {
		feed.OrderCreated(ctx, testOrder("ORD", 100))
	}

	if got := len(feed.List(ctx)); got != maxFeedSize {
		t.Fatalf("expected feed trimmed to %d, got %d", maxFeedSize, got)
	}

	feed.MarkAllRead(ctx)
	if feed.UnreadCount(ctx) != 0 {
		t.Fatalf("expected all read, got %d unread", feed.UnreadCount(ctx))
	}
}
