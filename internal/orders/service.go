package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/internal/checkout"
	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/pagination"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

// Notifier receives order lifecycle events for the dashboard feed.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order, previous enums.OrderStatus)
}

// Service manages the dashboard order pipeline and receives storefront
// submissions through the checkout Submitter seam.
type Service interface {
	checkout.Submitter

	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	GetByReference(ctx context.Context, reference string) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Counts(ctx context.Context) (map[string]int64, error)
}

// ListInput filters and paginates the dashboard listing.
type ListInput struct {
	Status string
	Limit  int
	Cursor string
}

// ListResult is one page of orders plus the cursor for the next page.
type ListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"nextCursor,omitempty"`
}

// OrderItemDTO is the API projection of one frozen order line.
type OrderItemDTO struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	UnitPrice types.Cents `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
	LineTotal types.Cents `json:"lineTotal"`
	Notes     *string     `json:"notes,omitempty"`
}

// OrderDTO is the API projection of an order.
type OrderDTO struct {
	ID             uuid.UUID      `json:"id"`
	Reference      string         `json:"reference"`
	CustomerName   string         `json:"customerName"`
	CustomerEmail  string         `json:"customerEmail"`
	CustomerPhone  string         `json:"customerPhone"`
	DeliveryOption string         `json:"deliveryOption"`
	Address        *types.Address `json:"address,omitempty"`
	PaymentMethod  string         `json:"paymentMethod"`
	ChangeFor      *types.Cents   `json:"changeFor,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	Subtotal       types.Cents    `json:"subtotal"`
	DeliveryFee    types.Cents    `json:"deliveryFee"`
	Total          types.Cents    `json:"total"`
	Status         string         `json:"status"`
	EstimatedTime  string         `json:"estimatedTime"`
	Items          []OrderItemDTO `json:"items"`
	PlacedAt       time.Time      `json:"placedAt"`
}

type service struct {
	repo          *Repository
	logger        *logger.Logger
	notifier      Notifier
	estimatedTime string
	submitLatency time.Duration
}

// NewService wires the orders service. The notifier is optional.
func NewService(repo *Repository, logg *logger.Logger, notifier Notifier, estimatedTime string, submitLatency time.Duration) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{
		repo:          repo,
		logger:        logg,
		notifier:      notifier,
		estimatedTime: estimatedTime,
		submitLatency: submitLatency,
	}, nil
}

// Submit persists a storefront checkout as a pending order. The configured
// latency simulates the payment round trip the demo storefront expects.
func (s *service) Submit(ctx context.Context, submission checkout.Order) error {
	if err := s.simulateLatency(ctx); err != nil {
		return err
	}

	order := orderFromSubmission(submission, s.estimatedTime)
	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	ctx = s.logger.WithOrderID(ctx, created.Reference)
	s.logger.Info(ctx, "order received")
	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, created)
	}
	return nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	filter := ListFilter{Limit: input.Limit}

	if input.Status != "" {
		status, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		filter.Status = &status
	}
	if input.Cursor != "" {
		cursor, err := pagination.ParseCursor(input.Cursor)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		filter.Cursor = cursor
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &ListResult{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{PlacedAt: last.PlacedAt, ID: last.ID})
		result.NextCursor = &cursor
		rows = rows[:limit]
	}
	for _, row := range rows {
		result.Orders = append(result.Orders, toOrderDTO(row))
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*OrderDTO, error) {
	order, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

// UpdateStatus moves an order along the kitchen pipeline. Transitions outside
// pending→preparing→ready→delivered (plus cancellation before ready) are
// refused with a state conflict.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if !previous.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
			WithDetails(map[string]any{"from": previous.String(), "to": target.String()})
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	order.Status = target

	ctx = s.logger.WithOrderID(ctx, order.Reference)
	s.logger.Info(s.logger.WithField(ctx, "status", target.String()), "order status updated")
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ctx, order, previous)
	}

	dto := toOrderDTO(*order)
	return &dto, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	return s.UpdateStatus(ctx, id, enums.OrderStatusCancelled)
}

// Counts returns per-status totals keyed by status name, including zeroes.
func (s *service) Counts(ctx context.Context) (map[string]int64, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count orders")
	}

	counts := map[string]int64{}
	for _, status := range []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPreparing,
		enums.OrderStatusReady,
		enums.OrderStatusDelivered,
		enums.OrderStatusCancelled,
	} {
		counts[status.String()] = byStatus[status]
	}
	return counts, nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) simulateLatency(ctx context.Context) error {
	if s.submitLatency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.submitLatency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func orderFromSubmission(submission checkout.Order, estimatedTime string) *models.Order {
	order := &models.Order{
		Reference:      submission.ID,
		CustomerName:   submission.Data.Customer.Name,
		CustomerEmail:  submission.Data.Customer.Email,
		CustomerPhone:  submission.Data.Customer.Phone,
		DeliveryOption: submission.Data.DeliveryOption,
		PaymentMethod:  submission.Data.Payment.Method,
		ChangeForCents: submission.Data.Payment.ChangeForCents,
		SubtotalCents:  submission.SubtotalCents,
		DeliveryCents:  submission.DeliveryFeeCents,
		TotalCents:     submission.TotalCents,
		Status:         enums.OrderStatusPending,
		EstimatedTime:  estimatedTime,
		PlacedAt:       submission.PlacedAt,
	}
	if submission.Data.Notes != "" {
		notes := submission.Data.Notes
		order.Notes = &notes
	}
	if submission.Data.DeliveryOption == enums.DeliveryOptionDelivery {
		address := submission.Data.Address
		order.Address = &address
	}

	order.Items = make([]models.OrderItem, 0, len(submission.Cart.Items))
	for _, item := range submission.Cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents(),
			Notes:          item.Notes,
		})
	}
	return order
}

func toOrderDTO(order models.Order) OrderDTO {
	dto := OrderDTO{
		ID:             order.ID,
		Reference:      order.Reference,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		CustomerPhone:  order.CustomerPhone,
		DeliveryOption: order.DeliveryOption.String(),
		Address:        order.Address,
		PaymentMethod:  order.PaymentMethod.String(),
		Notes:          order.Notes,
		Subtotal:       types.Cents(order.SubtotalCents),
		DeliveryFee:    types.Cents(order.DeliveryCents),
		Total:          types.Cents(order.TotalCents),
		Status:         order.Status.String(),
		EstimatedTime:  order.EstimatedTime,
		Items:          make([]OrderItemDTO, 0, len(order.Items)),
		PlacedAt:       order.PlacedAt,
	}
	if order.ChangeForCents != nil {
		change := types.Cents(*order.ChangeForCents)
		dto.ChangeFor = &change
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: types.Cents(item.UnitPriceCents),
			Quantity:  item.Quantity,
			LineTotal: types.Cents(item.LineTotalCents),
			Notes:     item.Notes,
		})
	}
	return dto
}
