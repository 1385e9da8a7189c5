package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopco-storefront/internal/checkout"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/order"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/validate"
)

type stepRequest struct {
	Step checkout.Step `json:"step" validate:"required"`
}

type paymentMethodRequest struct {
	Method order.PaymentMethod `json:"method" validate:"required"`
}

// Checkout renders the page, filling the phone from the cached profile.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	ws.Checkout.Prefill(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, ws.Checkout.View())
}

// SetShipping stores the form as typed. Rules are checked when leaving the step.
func (h *Handler) SetShipping(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var form checkout.ShippingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ws.Checkout.SetShipping(form)
	middleware.RespondWithJSON(w, http.StatusOK, ws.Checkout.View())
}

func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if err := ws.Checkout.Next(); err != nil {
		if fields := validate.Fields(err); len(fields) > 0 {
			middleware.RespondWithValidationErrors(w, fields)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "Please complete your shipping details.")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ws.Checkout.View())
}

func (h *Handler) PreviousStep(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	ws.Checkout.Previous()
	middleware.RespondWithJSON(w, http.StatusOK, ws.Checkout.View())
}

func (h *Handler) GoToStep(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req stepRequest
	if !decode(w, r, &req) {
		return
	}
	if err := ws.Checkout.GoToStep(req.Step); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid checkout step")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ws.Checkout.View())
}

func (h *Handler) SelectPaymentMethod(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req paymentMethodRequest
	if !decode(w, r, &req) {
		return
	}
	if err := ws.Checkout.SelectPaymentMethod(req.Method); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown payment method")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ws.Checkout.View())
}

// PlaceOrder answers with the outcome message and where the page goes next:
// order history after a cash order, the hosted payment page for card.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	out, err := ws.Checkout.PlaceOrder(r.Context())
	if err == nil {
		resp := ActionResponse{
			Message:         out.Message,
			Redirect:        out.Redirect,
			RedirectAfterMS: out.RedirectAfterMS(),
		}
		if out.Order != nil {
			resp.Data = out.Order
		}
		middleware.RespondWithJSON(w, http.StatusCreated, resp)
		return
	}

	status := placeOrderStatus(err)
	switch {
	case out.Redirect != "":
		middleware.RespondWithRedirect(w, status, out.Message, out.Redirect, out.RedirectAfter)
	case errors.Is(err, checkout.ErrInvalidShipping):
		middleware.RespondWithErrorDetails(w, status, out.Message, map[string]any{
			"validation_errors": validate.Fields(err),
			"step":              checkout.StepShipping,
		})
	default:
		middleware.RespondWithError(w, status, out.Message)
	}
}

func placeOrderStatus(err error) int {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated), errors.Is(err, checkout.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, checkout.ErrOrderInProgress):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrInvalidShipping), errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrCartIDNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
