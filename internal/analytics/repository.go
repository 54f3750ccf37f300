package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
)

// Repository runs the aggregate queries behind the dashboard analytics tab.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// OrdersSince returns non-cancelled orders placed at or after the cutoff.
// Time bucketing happens in the service so the query stays portable across
// SQLite and Postgres.
func (r *Repository) OrdersSince(ctx context.Context, since time.Time) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("placed_at >= ? AND status <> ?", since, enums.OrderStatusCancelled).
		Order("placed_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// TopProductRow is one aggregated sales line.
type TopProductRow struct {
	Name         string
	Quantity     int64
	RevenueCents int64
}

// TopProducts ranks products by units sold across non-cancelled orders.
func (r *Repository) TopProducts(ctx context.Context, limit int) ([]TopProductRow, error) {
	var rows []TopProductRow
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.line_total_cents) AS revenue_cents").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", enums.OrderStatusCancelled).
		Group("order_items.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ConversationStats counts chat threads and how many converted into orders.
func (r *Repository) ConversationStats(ctx context.Context) (total, converted int64, err error) {
	tx := r.db.WithContext(ctx).Model(&models.Conversation{})
	if err = tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = tx.Session(&gorm.Session{}).Where("converted = ?", true).Count(&converted).Error; err != nil {
		return 0, 0, err
	}
	return total, converted, nil
}
