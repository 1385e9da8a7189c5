package address

import "errors"

var (
	// -- Validation & Input --
	ErrMissingAddressID = errors.New("address id is required")

	// -- Authorization --
	ErrNotAuthenticated = errors.New("login required to manage addresses")
)
