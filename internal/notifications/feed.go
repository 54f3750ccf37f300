package notifications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

const maxFeedSize = 100

// Notification is one entry of the dashboard bell feed.
type Notification struct {
	ID        uuid.UUID              `json:"id"`
	Kind      enums.NotificationKind `json:"kind"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	OrderRef  string                 `json:"orderRef,omitempty"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"createdAt"`
}

// Feed is the in-memory notification inbox for the dashboard. It doubles as
// the orders Notifier, turning lifecycle events into feed entries. Old
// entries are trimmed so the feed never grows unbounded.
type Feed struct {
	mu      sync.Mutex
	entries []Notification
	logger  *logger.Logger
	now     func() time.Time
}

// NewFeed wires the notification feed.
func NewFeed(logg *logger.Logger) (*Feed, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Feed{logger: logg, now: time.Now}, nil
}

// OrderCreated records a new-order notification.
func (f *Feed) OrderCreated(ctx context.Context, order *models.Order) {
	f.push(Notification{
		Kind:     enums.NotificationOrderCreated,
		Title:    "Novo pedido",
		Body:     fmt.Sprintf("%s fez um pedido de R$ %.2f", order.CustomerName, float64(order.TotalCents)/100),
		OrderRef: order.Reference,
	})
}

// OrderStatusChanged records a pipeline-change notification.
func (f *Feed) OrderStatusChanged(ctx context.Context, order *models.Order, previous enums.OrderStatus) {
	f.push(Notification{
		Kind:     enums.NotificationOrderStatusChanged,
		Title:    "Pedido atualizado",
		Body:     fmt.Sprintf("Pedido %s mudou de %s para %s", order.Reference, previous, order.Status),
		OrderRef: order.Reference,
	})
}

// List returns notifications newest first.
func (f *Feed) List(ctx context.Context) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// UnreadCount returns how many entries are still unread.
func (f *Feed) UnreadCount(ctx context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, entry := range f.entries {
		if !entry.Read {
			count++
		}
	}
	return count
}

// MarkRead flags one entry as read.
func (f *Feed) MarkRead(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries[i].Read = true
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
}

// MarkAllRead flags every entry as read.
func (f *Feed) MarkAllRead(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.entries {
		f.entries[i].Read = true
	}
}

func (f *Feed) push(notification Notification) {
	notification.ID = uuid.New()
	notification.CreatedAt = f.now()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, notification)
	if len(f.entries) > maxFeedSize {
		f.entries = f.entries[len(f.entries)-maxFeedSize:]
	}
}
