package controllers

import (
	"net/http"

	"github.com/deliverypro/deliverypro-backend/api/responses"
	catalogsvc "github.com/deliverypro/deliverypro-backend/internal/catalog"
	restaurantsvc "github.com/deliverypro/deliverypro-backend/internal/restaurant"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

// StorefrontMenu lists available products grouped by category, in menu order.
func StorefrontMenu(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service not configured"))
			return
		}

		categories, err := svc.Storefront(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// StorefrontRestaurant exposes the public restaurant profile.
func StorefrontRestaurant(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "restaurant service not configured"))
			return
		}

		responses.WriteSuccess(w, svc.Get(r.Context()))
	}
}
