package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/deliverypro/deliverypro-backend/internal/cart"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

type stubSubmitter struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	failErr error
}

func (s *stubSubmitter) Submit(ctx context.Context, order Order) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.block != nil {
		<-s.block
	}
	return s.failErr
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestCheckout(t *testing.T, submitter Submitter) *Checkout {
	t.Helper()
	if submitter == nil {
		submitter = &stubSubmitter{}
	}
	c, err := New(submitter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func validCustomer() CustomerData {
	return CustomerData{Name: "João Silva", Email: "joao@email.com", Phone: "(11) 98888-7777"}
}

func validAddress() types.Address {
	return types.Address{
		Street:       "Rua das Flores",
		Number:       "123",
		Neighborhood: "Vila Madalena",
		City:         "São Paulo",
		State:        "SP",
		ZipCode:      "05433-000",
	}
}

func snapshotWithItems(t *testing.T) cart.Snapshot {
	t.Helper()
	c, err := cart.New(590, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddItem(cart.Product{ID: "1", Name: "Pizza Margherita", UnitPriceCents: 4590}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c.Snapshot()
}

func TestNewStartsAtStepOneWithDelivery(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	if c.Step() != StepCustomer {
		t.Fatalf("expected step 1, got %d", c.Step())
	}
	if got := c.Data().DeliveryOption; got != enums.DeliveryOptionDelivery {
		t.Fatalf("expected delivery preselected, got %s", got)
	}
}

func TestValidateStepCustomer(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	if c.ValidateStep(StepCustomer) {
		t.Fatal("expected empty customer step to fail validation")
	}

	c.SetCustomer(CustomerData{Name: "João Silva", Phone: "(11) 98888-7777"})
	c.SetAddress(validAddress())
	if c.ValidateStep(StepCustomer) {
		t.Fatal("expected missing email to fail validation")
	}

	c.SetCustomer(validCustomer())
	if !c.ValidateStep(StepCustomer) {
		t.Fatal("expected complete customer and address to pass")
	}
}

func TestPickupSkipsAddressValidation(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	c.SetCustomer(validCustomer())
	if err := c.SetDeliveryOption(enums.DeliveryOptionPickup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !c.ValidateStep(StepCustomer) {
		t.Fatal("expected pickup to validate without an address")
	}
}

func TestValidateStepPayment(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	if c.ValidateStep(StepPayment) {
		t.Fatal("expected missing method to fail validation")
	}

	if err := c.SetPayment(PaymentData{Method: enums.PaymentMethodPix}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.ValidateStep(StepPayment) {
		t.Fatal("expected pix to validate without card fields")
	}

	if err := c.SetPayment(PaymentData{
		Method:     enums.PaymentMethodCredit,
		CardNumber: "4111 1111 1111 1111",
		CardName:   "JOAO SILVA",
		CardExpiry: "12/28",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.ValidateStep(StepPayment) {
		t.Fatal("expected credit without cvv to fail validation")
	}
}

func TestSetPaymentClearsForeignFields(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	change := 10000
	if err := c.SetPayment(PaymentData{
		Method:         enums.PaymentMethodPix,
		CardNumber:     "4111 1111 1111 1111",
		CardName:       "JOAO SILVA",
		CardExpiry:     "12/28",
		CardCvv:        "123",
		ChangeForCents: &change,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment := c.Data().Payment
	if payment.CardNumber != "" || payment.CardCvv != "" {
		t.Fatalf("expected card fields cleared for pix, got %+v", payment)
	}
	if payment.ChangeForCents != nil {
		t.Fatal("expected change cleared for pix")
	}
}

func TestNextGatesOnValidation(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)

	err := c.Next()
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if c.Step() != StepCustomer {
		t.Fatalf("expected step unchanged, got %d", c.Step())
	}

	c.SetCustomer(validCustomer())
	c.SetAddress(validAddress())
	if err := c.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Step() != StepPayment {
		t.Fatalf("expected step 2, got %d", c.Step())
	}
}

func TestNextClampsAtReview(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	c.SetCustomer(validCustomer())
	c.SetAddress(validAddress())
	if err := c.SetPayment(PaymentData{Method: enums.PaymentMethodPix}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := c.Next(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if c.Step() != StepReview {
		t.Fatalf("expected step clamped at 3, got %d", c.Step())
	}
}

func TestPrevClampsAtFirstStep(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	c.Prev()
	c.Prev()
	if c.Step() != StepCustomer {
		t.Fatalf("expected step clamped at 1, got %d", c.Step())
	}
}

func TestJumpBypassesValidation(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	if err := c.Jump(StepReview); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Step() != StepReview {
		t.Fatalf("expected step 3, got %d", c.Step())
	}

	if err := c.Jump(4); err == nil {
		t.Fatal("expected error for out-of-range step")
	}
}

func completeCheckout(t *testing.T, submitter Submitter) *Checkout {
	t.Helper()
	c := newTestCheckout(t, submitter)
	c.SetCustomer(validCustomer())
	c.SetAddress(validAddress())
	if err := c.SetPayment(PaymentData{Method: enums.PaymentMethodPix}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestSubmitProducesOrder(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{}
	c := completeCheckout(t, submitter)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return at }

	order, err := c.Submit(context.Background(), snapshotWithItems(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.ID != defaultOrderID(at) {
		t.Fatalf("expected id derived from placement time, got %s", order.ID)
	}
	if order.SubtotalCents != 4590 || order.DeliveryFeeCents != 590 || order.TotalCents != 5180 {
		t.Fatalf("unexpected totals: %+v", order)
	}
	if submitter.callCount() != 1 {
		t.Fatalf("expected one submitter call, got %d", submitter.callCount())
	}
}

func TestSubmitPickupOmitsDeliveryFee(t *testing.T) {
	t.Parallel()

	c := completeCheckout(t, nil)
	if err := c.SetDeliveryOption(enums.DeliveryOptionPickup); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, err := c.Submit(context.Background(), snapshotWithItems(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.DeliveryFeeCents != 0 || order.TotalCents != 4590 {
		t.Fatalf("expected pickup totals 0/4590, got %d/%d", order.DeliveryFeeCents, order.TotalCents)
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	c := completeCheckout(t, nil)
	empty, err := cart.New(590, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = c.Submit(context.Background(), empty.Snapshot())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRejectsIncompleteData(t *testing.T) {
	t.Parallel()

	c := newTestCheckout(t, nil)
	_, err := c.Submit(context.Background(), snapshotWithItems(t))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitRejectsInsufficientChange(t *testing.T) {
	t.Parallel()

	c := completeCheckout(t, nil)
	change := 5000
	if err := c.SetPayment(PaymentData{Method: enums.PaymentMethodCash, ChangeForCents: &change}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := c.Submit(context.Background(), snapshotWithItems(t))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitGuardsConcurrentCalls(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{block: make(chan struct{})}
	c := completeCheckout(t, submitter)
	snap := snapshotWithItems(t)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), snap)
		done <- err
	}()

	// Wait until the first submission is inside the submitter.
	deadline := time.After(2 * time.Second)
	for submitter.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("first submission never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	_, err := c.Submit(context.Background(), snap)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict while submission in flight, got %v", err)
	}

	close(submitter.block)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error from first submission: %v", err)
	}

	// The guard is released after completion.
	if _, err := c.Submit(context.Background(), snap); err != nil {
		t.Fatalf("expected resubmission to succeed, got %v", err)
	}
}

func TestSubmitWrapsSubmitterFailure(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{failErr: context.DeadlineExceeded}
	c := completeCheckout(t, submitter)

	_, err := c.Submit(context.Background(), snapshotWithItems(t))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
