package model

import (
	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/checkout"
	"shopco-storefront/internal/order"
	"shopco-storefront/internal/wishlist"

	"github.com/shopspring/decimal"
)

type ShopFilter struct {
	Search   *string          `json:"search,omitempty"`
	Category *string          `json:"category,omitempty"`
	Brand    *string          `json:"brand,omitempty"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
	Page     *int             `json:"page,omitempty"`
}

type AddToCartInput struct {
	ProductID string  `json:"productId"`
	Quantity  *int    `json:"quantity,omitempty"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

type UpdateCartItemInput struct {
	ProductID string  `json:"productId"`
	Quantity  int     `json:"quantity"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

type ShippingInput struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

type Cart struct {
	Items   []cart.Item  `json:"items"`
	Count   int          `json:"count"`
	Summary cart.Summary `json:"summary"`
	Promo   *cart.Promo  `json:"promo,omitempty"`
	Message string       `json:"message,omitempty"`
}

type Wishlist struct {
	Items       []wishlist.Item `json:"items"`
	Count       int             `json:"count"`
	Totals      wishlist.Totals `json:"totals"`
	Sort        string          `json:"sort"`
	SortOptions []string        `json:"sortOptions"`
	Message     string          `json:"message,omitempty"`
}

type WishlistToggle struct {
	Added    bool      `json:"added"`
	Wishlist *Wishlist `json:"wishlist"`
}

type OrderHistory struct {
	Orders  []order.Order  `json:"orders"`
	Status  order.Status   `json:"status"`
	Message string         `json:"message,omitempty"`
	Stats   order.Stats    `json:"stats"`
	Filter  order.Filter   `json:"filter"`
	Filters []order.Filter `json:"filters"`
}

type OrderDetail struct {
	Order       order.Order `json:"order"`
	StatusLabel string      `json:"statusLabel"`
	TotalItems  int         `json:"totalItems"`
}

type OrderOutcome struct {
	Method          order.PaymentMethod `json:"method"`
	Message         string              `json:"message,omitempty"`
	Redirect        string              `json:"redirect,omitempty"`
	RedirectAfterMS int64               `json:"redirectAfterMs,omitempty"`
	Order           *order.Order        `json:"order,omitempty"`
}

func NewOrderOutcome(out checkout.Outcome) *OrderOutcome {
	return &OrderOutcome{
		Method:          out.Method,
		Message:         out.Message,
		Redirect:        out.Redirect,
		RedirectAfterMS: out.RedirectAfterMS(),
		Order:           out.Order,
	}
}

// Value returns the pointed-to string or "".
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
