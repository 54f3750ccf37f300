package cart

import (
	"strings"
	"sync"

	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
)

// DefaultDeliveryFeeCents matches the storefront's flat delivery fee (R$ 5,90).
const DefaultDeliveryFeeCents = 590

// Product is the descriptor accepted by AddItem.
type Product struct {
	ID             string
	Name           string
	UnitPriceCents int
	Image          *string
	Notes          *string
}

// LineItem is one product entry in the cart, uniquely keyed by product id.
type LineItem struct {
	ProductID      string
	Name           string
	UnitPriceCents int
	Quantity       int
	Image          *string
	Notes          *string
}

// LineTotalCents returns unit price times quantity.
func (li LineItem) LineTotalCents() int {
	return li.UnitPriceCents * li.Quantity
}

// Snapshot is an immutable copy of the cart handed to checkout.
type Snapshot struct {
	Items            []LineItem
	SubtotalCents    int
	DeliveryFeeCents int
	TotalCents       int
}

// Empty reports whether the snapshot holds no items.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// TotalFor returns the payable total under the given delivery option: the
// delivery fee only applies to non-empty delivery orders.
func (s Snapshot) TotalFor(option enums.DeliveryOption) int {
	if len(s.Items) == 0 {
		return 0
	}
	if option == enums.DeliveryOptionPickup {
		return s.SubtotalCents
	}
	return s.SubtotalCents + s.DeliveryFeeCents
}

// Cart is the authoritative in-memory cart for one storefront session.
// Mutations serialize on an internal mutex: the session owns the cart, but
// HTTP handlers for the same session can race. Totals are recomputed from the
// item list after every mutation so they never drift.
type Cart struct {
	mu                sync.Mutex
	items             []LineItem
	deliveryFeeCents  int
	freeDeliveryCents int
	feeCents          int
	subtotalCents     int
	totalCents        int
}

// New creates an empty cart with the given flat delivery fee. A positive
// freeDeliveryCents waives the fee once the subtotal reaches that threshold;
// zero disables the waiver.
func New(deliveryFeeCents, freeDeliveryCents int) (*Cart, error) {
	if deliveryFeeCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee must be non-negative")
	}
	if freeDeliveryCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "free delivery threshold must be non-negative")
	}
	return &Cart{
		deliveryFeeCents:  deliveryFeeCents,
		freeDeliveryCents: freeDeliveryCents,
		feeCents:          deliveryFeeCents,
	}, nil
}

// AddItem merges the product into the cart: an existing line item for the
// same product id gains quantity 1, otherwise a new line is appended with
// quantity 1. Always succeeds for a valid product.
func (c *Cart) AddItem(product Product) error {
	if strings.TrimSpace(product.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if product.UnitPriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be non-negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == product.ID {
			c.items[i].Quantity++
			c.recompute()
			return nil
		}
	}

	c.items = append(c.items, LineItem{
		ProductID:      product.ID,
		Name:           product.Name,
		UnitPriceCents: product.UnitPriceCents,
		Quantity:       1,
		Image:          product.Image,
		Notes:          product.Notes,
	})
	c.recompute()
	return nil
}

// RemoveItem drops the line item for the given product id. Missing ids are a
// harmless no-op, not an error.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(productID)
}

// UpdateQuantity sets the absolute quantity for a line item. A quantity of
// zero or less removes the item; unknown ids are a no-op.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			c.recompute()
			return
		}
	}
}

// Clear resets the cart to its empty state, keeping the configured fee for
// the next use.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.recompute()
}

// ItemCount returns the sum of quantities across all line items.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Snapshot returns an immutable copy of the current cart state.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]LineItem, len(c.items))
	copy(items, c.items)
	return Snapshot{
		Items:            items,
		SubtotalCents:    c.subtotalCents,
		DeliveryFeeCents: c.feeCents,
		TotalCents:       c.totalCents,
	}
}

func (c *Cart) removeLocked(productID string) {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.recompute()
			return
		}
	}
}

// recompute rebuilds subtotal, effective fee and total by full scan. O(n) per
// mutation, but guarantees totals can never drift from the item list. The
// delivery fee only contributes while the cart holds items, and is waived once
// the subtotal reaches the free delivery threshold.
func (c *Cart) recompute() {
	subtotal := 0
	for _, item := range c.items {
		subtotal += item.LineTotalCents()
	}
	c.subtotalCents = subtotal

	c.feeCents = c.deliveryFeeCents
	if c.freeDeliveryCents > 0 && subtotal >= c.freeDeliveryCents {
		c.feeCents = 0
	}

	if len(c.items) == 0 {
		c.totalCents = 0
		return
	}
	c.totalCents = subtotal + c.feeCents
}
