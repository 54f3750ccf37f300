package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deliverypro/deliverypro-backend/api/middleware"
	"github.com/deliverypro/deliverypro-backend/api/responses"
	"github.com/deliverypro/deliverypro-backend/api/validators"
	"github.com/deliverypro/deliverypro-backend/internal/cart"
	catalogsvc "github.com/deliverypro/deliverypro-backend/internal/catalog"
	"github.com/deliverypro/deliverypro-backend/internal/sessions"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type cartItemResponse struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	UnitPrice types.Cents `json:"unitPrice"`
	Quantity  int         `json:"quantity"`
	LineTotal types.Cents `json:"lineTotal"`
	Image     *string     `json:"image,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

type cartResponse struct {
	Items       []cartItemResponse `json:"items"`
	ItemCount   int                `json:"itemCount"`
	Subtotal    types.Cents        `json:"subtotal"`
	DeliveryFee types.Cents        `json:"deliveryFee"`
	Total       types.Cents        `json:"total"`
}

func toCartResponse(snapshot cart.Snapshot) cartResponse {
	items := make([]cartItemResponse, 0, len(snapshot.Items))
	count := 0
	for _, item := range snapshot.Items {
		count += item.Quantity
		items = append(items, cartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: types.Cents(item.UnitPriceCents),
			Quantity:  item.Quantity,
			LineTotal: types.Cents(item.LineTotalCents()),
			Image:     item.Image,
			Notes:     item.Notes,
		})
	}
	return cartResponse{
		Items:       items,
		ItemCount:   count,
		Subtotal:    types.Cents(snapshot.SubtotalCents),
		DeliveryFee: types.Cents(snapshot.DeliveryFeeCents),
		Total:       types.Cents(snapshot.TotalCents),
	}
}

func sessionCart(r *http.Request) (*sessions.Session, error) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token required")
	}
	return session, nil
}

// CartGet returns the session's current cart snapshot.
func CartGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(session.Cart.Snapshot()))
	}
}

// CartAddItem resolves the product in the catalog and merges it into the
// session cart. Unavailable or unknown products are refused.
func CartAddItem(catalog catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service not configured"))
			return
		}
		session, err := sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id"))
			return
		}

		product, err := catalog.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.Available {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "product is currently unavailable"))
			return
		}

		if err := session.Cart.AddItem(cart.Product{
			ID:             product.ID.String(),
			Name:           product.Name,
			UnitPriceCents: int(product.Price),
			Image:          product.Image,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartResponse(session.Cart.Snapshot()))
	}
}

// CartUpdateQuantity sets the absolute quantity for a line item; zero removes it.
func CartUpdateQuantity(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Cart.UpdateQuantity(chi.URLParam(r, "productID"), payload.Quantity)
		responses.WriteSuccess(w, toCartResponse(session.Cart.Snapshot()))
	}
}

// CartRemoveItem drops a line item from the cart.
func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Cart.RemoveItem(chi.URLParam(r, "productID"))
		responses.WriteSuccess(w, toCartResponse(session.Cart.Snapshot()))
	}
}

// CartClear empties the cart.
func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCart(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Cart.Clear()
		responses.WriteSuccess(w, toCartResponse(session.Cart.Snapshot()))
	}
}
