package wishlist

import "errors"

var (
	// -- Resource State --
	ErrItemNotFound = errors.New("wishlist item not found")

	// -- Persistence --
	ErrFailedSaveWishlist = errors.New("failed to save wishlist")

	// -- Validation & Input --
	ErrUnknownSort = errors.New("unknown wishlist sort")
)
