package orders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deliverypro/deliverypro-backend/internal/cart"
	"github.com/deliverypro/deliverypro-backend/internal/checkout"
	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

type recordingNotifier struct {
	mu      sync.Mutex
	created []string
	changed []string
}

func (n *recordingNotifier) OrderCreated(ctx context.Context, order *models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, order.Reference)
}

func (n *recordingNotifier) OrderStatusChanged(ctx context.Context, order *models.Order, previous enums.OrderStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, order.Status.String())
}

func testSubmission(t *testing.T, at time.Time) checkout.Order {
	t.Helper()
	c, err := cart.New(590, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddItem(cart.Product{ID: "1", Name: "Pizza Margherita", UnitPriceCents: 4590}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := c.Snapshot()

	return checkout.Order{
		ID:       "ORD-" + at.Format("150405.000"),
		PlacedAt: at,
		Data: checkout.Data{
			Customer: checkout.CustomerData{Name: "João Silva", Email: "joao@email.com", Phone: "(11) 98888-7777"},
			Address: types.Address{
				Street: "Rua das Flores", Number: "123", Neighborhood: "Vila Madalena",
				City: "São Paulo", State: "SP", ZipCode: "05433-000",
			},
			Payment:        checkout.PaymentData{Method: enums.PaymentMethodPix},
			DeliveryOption: enums.DeliveryOptionDelivery,
		},
		Cart:             snap,
		SubtotalCents:    snap.SubtotalCents,
		DeliveryFeeCents: 590,
		TotalCents:       5180,
	}
}

func submitTestOrder(t *testing.T, svc Service, at time.Time) OrderDTO {
	t.Helper()
	submission := testSubmission(t, at)
	if err := svc.Submit(context.Background(), submission); err != nil {
		t.Fatalf("submit: %v", err)
	}
	dto, err := svc.GetByReference(context.Background(), submission.ID)
	if err != nil {
		t.Fatalf("get by reference: %v", err)
	}
	return *dto
}

func TestSubmitPersistsPendingOrder(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	svc := newTestService(t, notifier)
	dto := submitTestOrder(t, svc, time.Now())

	if dto.Status != "pending" {
		t.Fatalf("expected pending status, got %s", dto.Status)
	}
	if int(dto.Total) != 5180 || int(dto.Subtotal) != 4590 || int(dto.DeliveryFee) != 590 {
		t.Fatalf("unexpected totals: %+v", dto)
	}
	if len(dto.Items) != 1 || dto.Items[0].Quantity != 1 {
		t.Fatalf("unexpected items: %+v", dto.Items)
	}
	if dto.Address == nil {
		t.Fatal("expected delivery address persisted")
	}
	if dto.EstimatedTime != "30-45 min" {
		t.Fatalf("unexpected estimate %q", dto.EstimatedTime)
	}
	if len(notifier.created) != 1 {
		t.Fatalf("expected one created notification, got %d", len(notifier.created))
	}
}

func TestSubmitHonorsCancellation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil).(*service)
	svc.submitLatency = 5 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := svc.Submit(ctx, testSubmission(t, time.Now()))
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if time.Since(start) > time.Second {
		t.Fatal("expected immediate return on cancellation")
	}
}

func TestStatusPipeline(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	svc := newTestService(t, notifier)
	dto := submitTestOrder(t, svc, time.Now())

	for _, target := range []enums.OrderStatus{
		enums.OrderStatusPreparing,
		enums.OrderStatusReady,
		enums.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateStatus(context.Background(), dto.ID, target)
		if err != nil {
			t.Fatalf("transition to %s: %v", target, err)
		}
		if updated.Status != target.String() {
			t.Fatalf("expected %s, got %s", target, updated.Status)
		}
	}
	if len(notifier.changed) != 3 {
		t.Fatalf("expected 3 change notifications, got %d", len(notifier.changed))
	}
}

func TestIllegalTransitionsAreRefused(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	dto := submitTestOrder(t, svc, time.Now())

	_, err := svc.UpdateStatus(context.Background(), dto.ID, enums.OrderStatusDelivered)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for pending→delivered, got %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), dto.ID, enums.OrderStatusPreparing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), dto.ID); err != nil {
		t.Fatalf("expected cancellation from preparing to succeed: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), dto.ID, enums.OrderStatusReady)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after cancellation, got %v", err)
	}
}

func TestListFiltersAndPaginates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		submitTestOrder(t, svc, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.List(context.Background(), ListInput{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Orders) != 2 || page.NextCursor == nil {
		t.Fatalf("expected first page of 2 with cursor, got %d orders", len(page.Orders))
	}
	if !page.Orders[0].PlacedAt.After(page.Orders[1].PlacedAt) {
		t.Fatal("expected newest-first ordering")
	}

	second, err := svc.List(context.Background(), ListInput{Limit: 2, Cursor: *page.NextCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second.Orders) != 2 {
		t.Fatalf("expected second page of 2, got %d", len(second.Orders))
	}
	if second.Orders[0].ID == page.Orders[0].ID {
		t.Fatal("expected non-overlapping pages")
	}

	filtered, err := svc.List(context.Background(), ListInput{Status: "delivered"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered.Orders) != 0 {
		t.Fatalf("expected no delivered orders, got %d", len(filtered.Orders))
	}

	_, err = svc.List(context.Background(), ListInput{Status: "bogus"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCountsIncludeZeroes(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil)
	submitTestOrder(t, svc, time.Now())

	counts, err := svc.Counts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts["pending"] != 1 {
		t.Fatalf("expected one pending order, got %d", counts["pending"])
	}
	for _, status := range []string{"preparing", "ready", "delivered", "cancelled"} {
		if got, ok := counts[status]; !ok || got != 0 {
			t.Fatalf("expected zero entry for %s, got %d (present=%v)", status, got, ok)
		}
	}
}
