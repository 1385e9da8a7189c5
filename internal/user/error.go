package user

import (
	"errors"

	"shopco-storefront/internal/api"
)

var (
	// -- Remote --
	ErrSignInFailed = errors.New("sign in failed")
	ErrSignUpFailed = errors.New("sign up failed")
	ErrMissingToken = errors.New("sign in response carried no token")

	// -- Persistence --
	ErrFailedSaveProfile = errors.New("failed to save profile")
)

const (
	signInFallback = "Invalid email or password."
	signUpFallback = "Registration failed. Please try again."
)

// UserMessage is the text shown to the visitor for a failed sign in or sign up.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrSignUpFailed):
		return api.Message(err, signUpFallback)
	case errors.Is(err, ErrFailedSaveProfile):
		return "Something went wrong. Please try again."
	default:
		return api.Message(err, signInFallback)
	}
}
