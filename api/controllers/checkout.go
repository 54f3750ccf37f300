package controllers

import (
	"net/http"

	"github.com/deliverypro/deliverypro-backend/api/middleware"
	"github.com/deliverypro/deliverypro-backend/api/responses"
	"github.com/deliverypro/deliverypro-backend/api/validators"
	"github.com/deliverypro/deliverypro-backend/internal/checkout"
	"github.com/deliverypro/deliverypro-backend/internal/sessions"
	"github.com/deliverypro/deliverypro-backend/pkg/enums"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/types"
)

type customerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type addressRequest struct {
	Street       string `json:"street" validate:"required"`
	Number       string `json:"number" validate:"required"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	ZipCode      string `json:"zip_code" validate:"required"`
}

type paymentRequest struct {
	Method         string `json:"method" validate:"required"`
	CardNumber     string `json:"cardNumber"`
	CardName       string `json:"cardName"`
	CardExpiry     string `json:"cardExpiry"`
	CardCvv        string `json:"cardCvv"`
	ChangeForCents *int   `json:"changeForCents"`
}

type deliveryOptionRequest struct {
	Option string `json:"option" validate:"required"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type jumpRequest struct {
	Step int `json:"step" validate:"required,min=1,max=3"`
}

type checkoutStateResponse struct {
	Step           int                  `json:"step"`
	Customer       checkout.CustomerData `json:"customer"`
	Address        types.Address        `json:"address"`
	Payment        paymentStateResponse `json:"payment"`
	Notes          string               `json:"notes"`
	DeliveryOption enums.DeliveryOption `json:"deliveryOption"`
	StepValid      bool                 `json:"stepValid"`
}

type paymentStateResponse struct {
	Method         enums.PaymentMethod `json:"method"`
	CardName       string              `json:"cardName,omitempty"`
	CardLast4      string              `json:"cardLast4,omitempty"`
	ChangeForCents *int                `json:"changeForCents,omitempty"`
}

type submittedOrderResponse struct {
	ID          string      `json:"id"`
	PlacedAt    string      `json:"placedAt"`
	Subtotal    types.Cents `json:"subtotal"`
	DeliveryFee types.Cents `json:"deliveryFee"`
	Total       types.Cents `json:"total"`
}

func toCheckoutState(c *checkout.Checkout) checkoutStateResponse {
	data := c.Data()
	step := c.Step()

	last4 := ""
	if n := len(data.Payment.CardNumber); n >= 4 {
		last4 = data.Payment.CardNumber[n-4:]
	}
	return checkoutStateResponse{
		Step:     step,
		Customer: data.Customer,
		Address:  data.Address,
		Payment: paymentStateResponse{
			Method:         data.Payment.Method,
			CardName:       data.Payment.CardName,
			CardLast4:      last4,
			ChangeForCents: data.Payment.ChangeForCents,
		},
		Notes:          data.Notes,
		DeliveryOption: data.DeliveryOption,
		StepValid:      c.ValidateStep(step),
	}
}

func sessionCheckout(r *http.Request) (*sessions.Session, error) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok || session.Checkout == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token required")
	}
	return session, nil
}

// CheckoutGet returns the wizard state for the session.
func CheckoutGet(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutSetCustomer stores the contact fields collected on step 1.
func CheckoutSetCustomer(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload customerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Checkout.SetCustomer(checkout.CustomerData{
			Name:  payload.Name,
			Email: payload.Email,
			Phone: payload.Phone,
		})
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutSetAddress stores the delivery address.
func CheckoutSetAddress(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Checkout.SetAddress(types.Address{
			Street:       payload.Street,
			Number:       payload.Number,
			Complement:   payload.Complement,
			Neighborhood: payload.Neighborhood,
			City:         payload.City,
			State:        payload.State,
			ZipCode:      payload.ZipCode,
		})
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutSetPayment stores the payment selection for step 2.
func CheckoutSetPayment(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "payment method"))
			return
		}

		if err := session.Checkout.SetPayment(checkout.PaymentData{
			Method:         method,
			CardNumber:     payload.CardNumber,
			CardName:       payload.CardName,
			CardExpiry:     payload.CardExpiry,
			CardCvv:        payload.CardCvv,
			ChangeForCents: payload.ChangeForCents,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutSetDeliveryOption switches between delivery and pickup.
func CheckoutSetDeliveryOption(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload deliveryOptionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		option, err := enums.ParseDeliveryOption(payload.Option)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "delivery option"))
			return
		}

		if err := session.Checkout.SetDeliveryOption(option); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutSetNotes stores the optional order notes.
func CheckoutSetNotes(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload notesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Checkout.SetNotes(payload.Notes)
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutValidateStep reports whether a given step's data is complete,
// defaulting to the current step.
func CheckoutValidateStep(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		step, err := validators.ParseQueryInt(r, "step", session.Checkout.Step(), checkout.StepCustomer, checkout.StepReview)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"step":  step,
			"valid": session.Checkout.ValidateStep(step),
		})
	}
}

// CheckoutNext advances the wizard when the current step validates.
func CheckoutNext(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.Checkout.Next(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutPrev moves the wizard one step back.
func CheckoutPrev(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Checkout.Prev()
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutJump moves directly to a step without validation, mirroring the
// storefront progress indicator.
func CheckoutJump(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload jumpRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := session.Checkout.Jump(payload.Step); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCheckoutState(session.Checkout))
	}
}

// CheckoutSubmit places the order. On success the cart is emptied and the
// wizard resets so the session can start a fresh order.
func CheckoutSubmit(registry *sessions.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessionCheckout(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := session.Checkout.Submit(r.Context(), session.Cart.Snapshot())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.Cart.Clear()
		if registry != nil {
			if err := registry.ResetCheckout(session.Token); err != nil && logg != nil {
				logg.Warn(r.Context(), "failed to reset checkout after submission")
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, submittedOrderResponse{
			ID:          order.ID,
			PlacedAt:    order.PlacedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
			Subtotal:    types.Cents(order.SubtotalCents),
			DeliveryFee: types.Cents(order.DeliveryFeeCents),
			Total:       types.Cents(order.TotalCents),
		})
	}
}
