package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/deliverypro/deliverypro-backend/internal/cart"
	"github.com/deliverypro/deliverypro-backend/internal/checkout"
	"github.com/deliverypro/deliverypro-backend/pkg/config"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/redis"
)

type noopSubmitter struct{}

func (noopSubmitter) Submit(ctx context.Context, order checkout.Order) error { return nil }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	store, err := redis.New(context.Background(), config.RedisConfig{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, err := NewRegistry(store, 4*time.Hour, cart.DefaultDeliveryFeeCents, 0, noopSubmitter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestStartCreatesIsolatedSessions(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	ctx := context.Background()

	first, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Token == second.Token {
		t.Fatal("expected distinct tokens")
	}

	if err := first.Cart.AddItem(cart.Product{ID: "1", UnitPriceCents: 1000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := second.Cart.ItemCount(); got != 0 {
		t.Fatalf("expected second session untouched, got %d items", got)
	}
}

func TestGetResolvesAndRefreshes(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	ctx := context.Background()

	session, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resolved, err := r.Get(ctx, session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Cart != session.Cart {
		t.Fatal("expected the same cart instance")
	}

	if _, err := r.Get(ctx, "missing"); pkgerrors.As(err) == nil {
		t.Fatal("expected typed error for unknown token")
	}
	if _, err := r.Get(ctx, ""); pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatal("expected unauthorized for empty token")
	}
}

func TestExpiredSessionsAreDropped(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	ctx := context.Background()

	session, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.now = func() time.Time { return time.Now().Add(5 * time.Hour) }

	_, err = r.Get(ctx, session.Token)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for expired session, got %v", err)
	}
	if got := r.ActiveCount(); got != 0 {
		t.Fatalf("expected no active sessions, got %d", got)
	}
}

func TestEndRemovesSession(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	ctx := context.Background()

	session, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.End(ctx, session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.End(ctx, session.Token); pkgerrors.As(err) == nil {
		t.Fatal("expected typed error for double end")
	}
}

func TestResetCheckoutStartsFreshWizard(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	ctx := context.Background()

	session, err := r.Start(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := session.Checkout.Jump(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.ResetCheckout(session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved, err := r.Get(ctx, session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Checkout.Step() != 1 {
		t.Fatalf("expected fresh wizard at step 1, got %d", resolved.Checkout.Step())
	}
}

func TestSweepEvictsExpired(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t)
	ctx := context.Background()

	if _, err := r.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Start(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r.now = func() time.Time { return time.Now().Add(5 * time.Hour) }
	if removed := r.Sweep(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
}
