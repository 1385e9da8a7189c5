package graph

import (
	"context"
	"errors"

	"shopco-storefront/internal/checkout"
	"shopco-storefront/internal/graph/model"
	"shopco-storefront/internal/order"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/validate"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

func checkoutView(ws *session.Workspace) *checkout.View {
	v := ws.Checkout.View()
	return &v
}

// shippingError carries the failed form fields so the page can mark them.
func shippingError(err error) *gqlerror.Error {
	e := badInput("Please complete your shipping details.")
	if fields := validate.Fields(err); len(fields) > 0 {
		e.Extensions["validation_errors"] = fields
	}
	e.Extensions["step"] = int(checkout.StepShipping)
	return e
}

// Checkout fills the phone from the cached profile before rendering.
func (r *queryResolver) Checkout(ctx context.Context) (*checkout.View, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	ws.Checkout.Prefill(ctx)
	return checkoutView(ws), nil
}

// SetShipping stores the form as typed. Rules are checked when leaving the step.
func (r *mutationResolver) SetShipping(ctx context.Context, input model.ShippingInput) (*checkout.View, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	ws.Checkout.SetShipping(checkout.ShippingForm{
		Details: input.Details,
		Phone:   input.Phone,
		City:    input.City,
	})
	return checkoutView(ws), nil
}

func (r *mutationResolver) NextStep(ctx context.Context) (*checkout.View, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Checkout.Next(); err != nil {
		return nil, shippingError(err)
	}
	return checkoutView(ws), nil
}

func (r *mutationResolver) PreviousStep(ctx context.Context) (*checkout.View, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	ws.Checkout.Previous()
	return checkoutView(ws), nil
}

// GoToStep only moves back; asking for a later step leaves the flow where it is.
func (r *mutationResolver) GoToStep(ctx context.Context, step int) (*checkout.View, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Checkout.GoToStep(checkout.Step(step)); err != nil {
		return nil, badInput("invalid checkout step")
	}
	return checkoutView(ws), nil
}

func (r *mutationResolver) SelectPaymentMethod(ctx context.Context, method string) (*checkout.View, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Checkout.SelectPaymentMethod(order.PaymentMethod(method)); err != nil {
		return nil, badInput("unknown payment method")
	}
	return checkoutView(ws), nil
}

// PlaceOrder returns where the page goes next: order history after a cash
// order, the hosted payment page for card. Failures carry the same message
// and redirect as extensions.
func (r *mutationResolver) PlaceOrder(ctx context.Context) (*model.OrderOutcome, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	out, err := ws.Checkout.PlaceOrder(ctx)
	if err == nil {
		return model.NewOrderOutcome(out), nil
	}

	if errors.Is(err, checkout.ErrInvalidShipping) {
		return nil, shippingError(err)
	}
	e := userError(placeOrderCode(err), out.Message)
	if out.Redirect != "" {
		e.Extensions["redirect"] = out.Redirect
		e.Extensions["redirectAfterMs"] = out.RedirectAfterMS()
	}
	return nil, e
}

func placeOrderCode(err error) string {
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated), errors.Is(err, checkout.ErrSessionExpired):
		return codeUnauthenticated
	case errors.Is(err, checkout.ErrOrderInProgress):
		return codeConflict
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrCartIDNotFound):
		return codeBadInput
	default:
		return codeUpstream
	}
}
