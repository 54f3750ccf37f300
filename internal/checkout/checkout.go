package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/deliverypro/deliverypro-backend/internal/cart"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

// Wizard steps. The flow is strictly linear for Next/Prev; Jump is the
// explicit unvalidated navigation used by the progress indicator.
const (
	StepCustomer = 1
	StepPayment  = 2
	StepReview   = 3

	minStep = StepCustomer
	maxStep = StepReview
)

// CustomerData identifies who is placing the order. All fields required.
type CustomerData struct {
	Name  string
	Email string
	Phone string
}

// Complete reports whether every field is filled.
func (c CustomerData) Complete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Email) != "" &&
		strings.TrimSpace(c.Phone) != ""
}

// PaymentData carries the selected method plus its conditional fields.
type PaymentData struct {
	Method         enums.PaymentMethod
	CardNumber     string
	CardName       string
	CardExpiry     string
	CardCvv        string
	ChangeForCents *int
}

func (p PaymentData) cardComplete() bool {
	return strings.TrimSpace(p.CardNumber) != "" &&
		strings.TrimSpace(p.CardName) != "" &&
		strings.TrimSpace(p.CardExpiry) != "" &&
		strings.TrimSpace(p.CardCvv) != ""
}

// Data aggregates everything the wizard collects before submission.
type Data struct {
	Customer       CustomerData
	Address        types.Address
	Payment        PaymentData
	Notes          string
	DeliveryOption enums.DeliveryOption
}

// Order is the immutable terminal artifact produced by Submit.
type Order struct {
	ID               string
	PlacedAt         time.Time
	Data             Data
	Cart             cart.Snapshot
	SubtotalCents    int
	DeliveryFeeCents int
	TotalCents       int
}

// Submitter forwards a finished order to whatever backend is wired in. The
// demo deployment uses a simulated submitter; a real one can be substituted
// without touching the wizard.
type Submitter interface {
	Submit(ctx context.Context, order Order) error
}

// Checkout drives the 3-step wizard over Data, gating forward progress on
// step-local validation and producing an Order on submission. One instance
// per storefront session.
type Checkout struct {
	mu         sync.Mutex
	step       int
	data       Data
	submitting bool
	submitter  Submitter

	now        func() time.Time
	newOrderID func(time.Time) string
}

// New builds a checkout starting at step 1 with delivery preselected.
func New(submitter Submitter) (*Checkout, error) {
	if submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	return &Checkout{
		step:       minStep,
		data:       Data{DeliveryOption: enums.DeliveryOptionDelivery},
		submitter:  submitter,
		now:        time.Now,
		newOrderID: defaultOrderID,
	}, nil
}

func defaultOrderID(at time.Time) string {
	return fmt.Sprintf("ORD-%d", at.UnixMilli())
}

// Step returns the current wizard position.
func (c *Checkout) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Data returns a copy of the collected checkout data.
func (c *Checkout) Data() Data {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// SetCustomer stores the customer contact fields.
func (c *Checkout) SetCustomer(customer CustomerData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Customer = customer
}

// SetAddress stores the delivery address.
func (c *Checkout) SetAddress(address types.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Address = address
}

// SetPayment stores the payment selection, clearing fields that do not apply
// to the chosen method: card fields outside credit/debit, change outside cash.
func (c *Checkout) SetPayment(payment PaymentData) error {
	if !payment.Method.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	if !payment.Method.RequiresCard() {
		payment.CardNumber = ""
		payment.CardName = ""
		payment.CardExpiry = ""
		payment.CardCvv = ""
	}
	if payment.Method != enums.PaymentMethodCash {
		payment.ChangeForCents = nil
	}
	if payment.ChangeForCents != nil && *payment.ChangeForCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "change amount must be non-negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Payment = payment
	return nil
}

// SetDeliveryOption switches between delivery and pickup.
func (c *Checkout) SetDeliveryOption(option enums.DeliveryOption) error {
	if !option.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery option")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.DeliveryOption = option
	return nil
}

// SetNotes stores the optional free-text order notes.
func (c *Checkout) SetNotes(notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Notes = notes
}

// ValidateStep is the boolean validation contract for each step:
// step 1 needs full customer data plus a complete address unless pickup;
// step 2 needs a method plus card details for credit/debit;
// step 3 (review) is always valid. Unknown steps are invalid.
func (c *Checkout) ValidateStep(step int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validateStep(step, c.data)
}

func validateStep(step int, data Data) bool {
	switch step {
	case StepCustomer:
		if !data.Customer.Complete() {
			return false
		}
		if data.DeliveryOption == enums.DeliveryOptionPickup {
			return true
		}
		return data.Address.Complete()
	case StepPayment:
		if !data.Payment.Method.IsValid() {
			return false
		}
		if data.Payment.Method.RequiresCard() {
			return data.Payment.cardComplete()
		}
		return true
	case StepReview:
		return true
	default:
		return false
	}
}

// Next advances one step, clamped at review. The current step must validate;
// otherwise the step is unchanged and a validation error is returned for the
// caller to surface.
func (c *Checkout) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !validateStep(c.step, c.data) {
		return pkgerrors.New(pkgerrors.CodeValidation, "current step is incomplete").
			WithDetails(map[string]any{"step": c.step})
	}
	if c.step < maxStep {
		c.step++
	}
	return nil
}

// Prev moves one step back, clamped at the first step.
func (c *Checkout) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step > minStep {
		c.step--
	}
}

// Jump moves directly to the given step without validation. This mirrors the
// progress-indicator navigation of the storefront, which deliberately allows
// skipping ahead; it is a named capability, not an accident, so callers can
// decide whether to expose it.
func (c *Checkout) Jump(step int) error {
	if step < minStep || step > maxStep {
		return pkgerrors.New(pkgerrors.CodeValidation, "step out of range")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = step
	return nil
}

// Submit validates the collected data against a cart snapshot, constructs the
// immutable order, and forwards it through the submitter. An in-flight guard
// makes the operation idempotent per checkout session: a second call while
// one is running is refused with a conflict.
func (c *Checkout) Submit(ctx context.Context, snapshot cart.Snapshot) (*Order, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order submission already in progress")
	}
	data := c.data
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	order, err := buildOrder(data, snapshot, c.newOrderID, c.now)
	if err != nil {
		return nil, err
	}

	if err := c.submitter.Submit(ctx, *order); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
	}
	return order, nil
}

func buildOrder(data Data, snapshot cart.Snapshot, newID func(time.Time) string, now func() time.Time) (*Order, error) {
	if snapshot.Empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
	}
	if !validateStep(StepCustomer, data) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer or address data incomplete").
			WithDetails(map[string]any{"step": StepCustomer})
	}
	if !validateStep(StepPayment, data) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment data incomplete").
			WithDetails(map[string]any{"step": StepPayment})
	}

	total := snapshot.TotalFor(data.DeliveryOption)
	fee := total - snapshot.SubtotalCents

	if data.Payment.ChangeForCents != nil && *data.Payment.ChangeForCents < total {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "change amount must cover the order total")
	}

	placedAt := now()
	return &Order{
		ID:               newID(placedAt),
		PlacedAt:         placedAt,
		Data:             data,
		Cart:             snapshot,
		SubtotalCents:    snapshot.SubtotalCents,
		DeliveryFeeCents: fee,
		TotalCents:       total,
	}, nil
}
