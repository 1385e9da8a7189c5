package storage

import "errors"

var (
	// -- Encoding --
	ErrCorruptValue = errors.New("stored value is not valid JSON")
	ErrEncodeValue  = errors.New("value cannot be encoded")

	// -- Backend --
	ErrInvalidKey = errors.New("invalid storage key")
)
