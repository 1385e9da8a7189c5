package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrInvalidPromo    = errors.New("invalid promo code")

	// -- Stock --
	ErrMaxQuantityReached   = errors.New("maximum quantity reached")
	ErrQuantityExceedsStock = errors.New("quantity exceeds available stock")

	// -- Persistence --
	ErrFailedSaveCart = errors.New("failed to save cart")
)

// UserMessage is the text shown to the shopper for a cart error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrMaxQuantityReached):
		return "Maximum quantity reached!"
	case errors.Is(err, ErrQuantityExceedsStock):
		return "Quantity exceeds available stock!"
	case errors.Is(err, ErrInvalidPromo):
		return "This promo code is not valid"
	case errors.Is(err, ErrInvalidQuantity):
		return "Quantity must be at least 1"
	default:
		return "Something went wrong with your cart. Please try again."
	}
}
