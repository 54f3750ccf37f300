package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
)

// Repository wires product persistence helpers.
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

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a single product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Save persists all fields of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAll returns every product ordered by category then name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("category ASC, name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListAvailable returns the storefront-visible products.
func (r *Repository) ListAvailable(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("category ASC, popular DESC, name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Counts aggregates catalog numbers for the dashboard header.
type Counts struct {
	Total       int64
	Available   int64
	Unavailable int64
	Popular     int64
}

// CountByAvailability returns the catalog counters in one round trip each.
func (r *Repository) CountByAvailability(ctx context.Context) (*Counts, error) {
	var counts Counts
	tx := r.db.WithContext(ctx).Model(&models.Product{})

	if err := tx.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return nil, err
	}
	if err := tx.Session(&gorm.Session{}).Where("available = ?", true).Count(&counts.Available).Error; err != nil {
		return nil, err
	}
	if err := tx.Session(&gorm.Session{}).Where("popular = ?", true).Count(&counts.Popular).Error; err != nil {
		return nil, err
	}
	counts.Unavailable = counts.Total - counts.Available
	return &counts, nil
}
