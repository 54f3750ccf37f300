package restaurant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/deliverypro/deliverypro-backend/pkg/config"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

// Profile is the public restaurant card shown on the storefront header and
// editable from the dashboard settings tab.
type Profile struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	DeliveryTime string      `json:"deliveryTime"`
	DeliveryFee  types.Cents `json:"deliveryFee"`
	MinimumOrder types.Cents `json:"minimumOrder"`
	Rating       float64     `json:"rating"`
	ReviewCount  int         `json:"reviewCount"`
	IsOpen       bool        `json:"isOpen"`
}

// UpdateInput holds optional profile mutations.
type UpdateInput struct {
	Name         *string
	Description  *string
	Phone        *string
	Address      *string
	DeliveryTime *string
	IsOpen       *bool
}

// Service holds the in-memory restaurant profile, seeded from configuration.
type Service interface {
	Get(ctx context.Context) Profile
	Update(ctx context.Context, input UpdateInput) (Profile, error)
}

type service struct {
	mu      sync.RWMutex
	profile Profile
	logger  *logger.Logger
}

// NewService seeds the profile from configuration.
func NewService(cfg config.RestaurantConfig, checkout config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{
		profile: Profile{
			Name:         cfg.Name,
			Description:  cfg.Description,
			Phone:        cfg.Phone,
			Address:      cfg.Address,
			DeliveryTime: cfg.DeliveryTime,
			DeliveryFee:  types.Cents(checkout.DeliveryFeeCents),
			MinimumOrder: types.Cents(checkout.MinOrderCents),
			Rating:       cfg.Rating,
			ReviewCount:  cfg.ReviewCount,
			IsOpen:       cfg.Open,
		},
		logger: logg,
	}, nil
}

func (s *service) Get(ctx context.Context) Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *service) Update(ctx context.Context, input UpdateInput) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return Profile{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		s.profile.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		s.profile.Description = strings.TrimSpace(*input.Description)
	}
	if input.Phone != nil {
		s.profile.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		s.profile.Address = strings.TrimSpace(*input.Address)
	}
	if input.DeliveryTime != nil {
		s.profile.DeliveryTime = strings.TrimSpace(*input.DeliveryTime)
	}
	if input.IsOpen != nil {
		s.profile.IsOpen = *input.IsOpen
	}

	s.logger.Info(ctx, "restaurant profile updated")
	return s.profile, nil
}
