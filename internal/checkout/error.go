package checkout

import (
	"errors"
	"time"
)

var (
	// -- Validation & Input --
	ErrInvalidShipping      = errors.New("shipping details are invalid")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	ErrInvalidStep          = errors.New("invalid checkout step")

	// -- Preconditions --
	ErrNotAuthenticated = errors.New("login required to place order")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCartIDNotFound   = errors.New("remote cart id not found")
	ErrOrderInProgress  = errors.New("order is already being placed")

	// -- Remote --
	ErrSessionExpired    = errors.New("session expired")
	ErrPaymentURLMissing = errors.New("payment session url not received")
	ErrOrderFailed       = errors.New("order failed")
)

const (
	msgPlaced          = "Order Placed Successfully!"
	msgLoginRequired   = "Please login to place order"
	msgEmptyCart       = "Your cart is empty. Please add items first."
	msgCartIDNotFound  = "Cart ID not found. Please refresh the page and try again."
	msgSessionExpired  = "Session expired. Please login again."
	msgURLMissing      = "Payment session URL not received"
	msgCashFailed      = "Failed to place order. Please try again."
	msgCardFailed      = "Failed to create payment session."
	msgInvalidShipping = "Please complete your shipping details."
	msgInProgress      = "Your order is being processed."
)

const (
	LoginPath  = "/auth/login"
	OrdersPath = "/orders"

	// SessionExpiredDelay is how long the message stays before the login redirect.
	SessionExpiredDelay = 2000 * time.Millisecond
	// PlacedDelay keeps the success notice up before moving to order history.
	PlacedDelay = 2000 * time.Millisecond
)
