package controllers

import (
	"net/http"

	"github.com/deliverypro/deliverypro-backend/api/responses"
	"github.com/deliverypro/deliverypro-backend/api/validators"
	restaurantsvc "github.com/deliverypro/deliverypro-backend/internal/restaurant"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

type updateRestaurantRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	DeliveryTime *string `json:"deliveryTime"`
	IsOpen       *bool   `json:"isOpen"`
}

// RestaurantGet returns the profile shown on the dashboard settings tab.
func RestaurantGet(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service not configured"))
			return
		}
		responses.WriteSuccess(w, svc.Get(r.Context()))
	}
}

// RestaurantUpdate applies a partial profile update.
func RestaurantUpdate(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service not configured"))
			return
		}

		var payload updateRestaurantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Update(r.Context(), restaurantsvc.UpdateInput{
			Name:         payload.Name,
			Description:  payload.Description,
			Phone:        payload.Phone,
			Address:      payload.Address,
			DeliveryTime: payload.DeliveryTime,
			IsOpen:       payload.IsOpen,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
