package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type Customer struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ShippingAddress struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

type ProductSnapshot struct {
	ID         string `json:"_id"`
	Title      string `json:"title"`
	ImageCover string `json:"imageCover"`
	Brand      struct {
		Name string `json:"name"`
	} `json:"brand"`
	Category struct {
		Name string `json:"name"`
	} `json:"category"`
}

type Item struct {
	ID      string          `json:"_id"`
	Product ProductSnapshot `json:"product"`
	Count   int             `json:"count"`
	Price   decimal.Decimal `json:"price"`
	Color   string          `json:"color,omitempty"`
}

type Order struct {
	ID                string          `json:"_id"`
	User              Customer        `json:"user"`
	CartItems         []Item          `json:"cartItems"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	TaxPrice          decimal.Decimal `json:"taxPrice"`
	ShippingPrice     decimal.Decimal `json:"shippingPrice"`
	TotalOrderPrice   decimal.Decimal `json:"totalOrderPrice"`
	PaymentMethodType PaymentMethod   `json:"paymentMethodType"`
	IsPaid            bool            `json:"isPaid"`
	IsDelivered       bool            `json:"isDelivered"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
	DeliveredAt       *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// CashOrderResponse is returned when a cash-on-delivery order is created.
type CashOrderResponse struct {
	Status string `json:"status"`
	Data   Order  `json:"data"`
}

// CheckoutSession is the hosted payment session for card orders.
type CheckoutSession struct {
	Status  string `json:"status"`
	Session struct {
		URL string `json:"url"`
	} `json:"session"`
}
