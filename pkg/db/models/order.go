package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

// Order is the terminal artifact of a checkout submission: an immutable
// snapshot of cart and customer data plus a dashboard-managed status.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Reference      string               `gorm:"column:reference;not null;uniqueIndex"`
	CustomerName   string               `gorm:"column:customer_name;not null"`
	CustomerEmail  string               `gorm:"column:customer_email;not null"`
	CustomerPhone  string               `gorm:"column:customer_phone;not null"`
	DeliveryOption enums.DeliveryOption `gorm:"column:delivery_option;not null"`
	Address        *types.Address       `gorm:"column:address;serializer:json"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;not null"`
	ChangeForCents *int                 `gorm:"column:change_for_cents"`
	Notes          *string              `gorm:"column:notes"`
	SubtotalCents  int                  `gorm:"column:subtotal_cents;not null"`
	DeliveryCents  int                  `gorm:"column:delivery_cents;not null;default:0"`
	TotalCents     int                  `gorm:"column:total_cents;not null"`
	Status         enums.OrderStatus    `gorm:"column:status;not null;default:'pending';index"`
	EstimatedTime  string               `gorm:"column:estimated_time;not null;default:''"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt       time.Time            `gorm:"column:placed_at;not null"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an id when none is provided.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
