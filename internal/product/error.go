package product

import "errors"

var (
	// -- Validation & Input --
	ErrMissingProductID = errors.New("product id is required")

	// -- Resource State --
	ErrProductNotFound = errors.New("product not found")
)
