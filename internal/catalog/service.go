package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

// Service exposes menu management for the dashboard and the read-only
// storefront listing.
type Service interface {
	Storefront(ctx context.Context) ([]CategoryDTO, error)
	List(ctx context.Context) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleAvailability(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Counts(ctx context.Context) (*CountsDTO, error)
}

// CreateProductInput holds the validated payload to create a menu entry.
type CreateProductInput struct {
	Name        string
	Description string
	PriceCents  int
	Category    string
	Image       *string
	Popular     bool
	Available   bool
}

// UpdateProductInput holds optional mutation values for a menu entry.
type UpdateProductInput struct {
	Name        *string
	Description *string
	PriceCents  *int
	Category    *string
	Image       *string
	Popular     *bool
	Available   *bool
}

// ProductDTO is the API projection of a menu entry.
type ProductDTO struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       types.Cents `json:"price"`
	Category    string      `json:"category"`
	Image       *string     `json:"image,omitempty"`
	Popular     bool        `json:"popular"`
	Available   bool        `json:"available"`
}

// CategoryDTO groups storefront products under their menu section.
type CategoryDTO struct {
	Name     string       `json:"name"`
	Products []ProductDTO `json:"products"`
}

// CountsDTO carries the dashboard header numbers.
type CountsDTO struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Unavailable int64 `json:"unavailable"`
	Popular     int64 `json:"popular"`
}

type service struct {
	repo   *Repository
	logger *logger.Logger
}

// NewService wires the catalog service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{repo: repo, logger: logg}, nil
}

func (s *service) Storefront(ctx context.Context) ([]CategoryDTO, error) {
	products, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list storefront products")
	}

	var categories []CategoryDTO
	index := map[string]int{}
	for _, product := range products {
		pos, ok := index[product.Category]
		if !ok {
			pos = len(categories)
			index[product.Category] = pos
			categories = append(categories, CategoryDTO{Name: product.Category})
		}
		categories[pos].Products = append(categories[pos].Products, toProductDTO(product))
	}
	return categories, nil
}

func (s *service) List(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, toProductDTO(product))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toProductDTO(*product)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		Category:    strings.TrimSpace(input.Category),
		Image:       input.Image,
		Popular:     input.Popular,
		Available:   input.Available,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	s.logger.Info(s.logger.WithField(ctx, "product_id", created.ID.String()), "menu item created")
	dto := toProductDTO(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
		}
		product.PriceCents = *input.PriceCents
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be blank")
		}
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Image != nil {
		product.Image = input.Image
	}
	if input.Popular != nil {
		product.Popular = *input.Popular
	}
	if input.Available != nil {
		product.Available = *input.Available
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	dto := toProductDTO(*saved)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	s.logger.Info(s.logger.WithField(ctx, "product_id", id.String()), "menu item deleted")
	return nil
}

func (s *service) ToggleAvailability(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Available = !product.Available
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle availability")
	}
	dto := toProductDTO(*saved)
	return &dto, nil
}

func (s *service) Counts(ctx context.Context) (*CountsDTO, error) {
	counts, err := s.repo.CountByAvailability(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	return &CountsDTO{
		Total:       counts.Total,
		Available:   counts.Available,
		Unavailable: counts.Unavailable,
		Popular:     counts.Popular,
	}, nil
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func validateCreate(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	return nil
}

func toProductDTO(product models.Product) ProductDTO {
	return ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       types.Cents(product.PriceCents),
		Category:    product.Category,
		Image:       product.Image,
		Popular:     product.Popular,
		Available:   product.Available,
	}
}
