package checkout

import (
	"time"

	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/order"

	"github.com/shopspring/decimal"
)

type Step int

const (
	StepShipping Step = 1
	StepPayment  Step = 2
	StepReview   Step = 3
)

type ShippingForm struct {
	Details string `json:"details" validate:"required,min=5"`
	Phone   string `json:"phone" validate:"required,egmobile"`
	City    string `json:"city" validate:"required,min=2"`
}

func (f ShippingForm) address() order.ShippingAddress {
	return order.ShippingAddress{Details: f.Details, Phone: f.Phone, City: f.City}
}

// Outcome tells the page what to show and where to go after PlaceOrder.
// RedirectAfter is zero for an immediate redirect.
type Outcome struct {
	Method        order.PaymentMethod `json:"method"`
	Message       string              `json:"message,omitempty"`
	Redirect      string              `json:"redirect,omitempty"`
	RedirectAfter time.Duration       `json:"-"`
	Order         *order.Order        `json:"order,omitempty"`
}

// RedirectAfterMS is RedirectAfter in milliseconds, as the page expects it.
func (o Outcome) RedirectAfterMS() int64 {
	return o.RedirectAfter.Milliseconds()
}

// View is the checkout page state.
type View struct {
	Step         Step            `json:"step"`
	Form         ShippingForm    `json:"form"`
	Method       PaymentOption   `json:"paymentMethod"`
	Methods      []PaymentOption `json:"paymentMethods"`
	Items        []cart.Item     `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	Instructions []string        `json:"instructions"`
	Notice       string          `json:"notice,omitempty"`
}
