package graph

import (
	"context"
	"errors"

	"shopco-storefront/internal/api"
	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/product"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"go.uber.org/zap"
)

const (
	codeUnauthenticated = "UNAUTHENTICATED"
	codeBadInput        = "BAD_USER_INPUT"
	codeConflict        = "CONFLICT"
	codeNotFound        = "NOT_FOUND"
	codeUpstream        = "UPSTREAM_FAILED"
	codeInternal        = "INTERNAL_SERVER_ERROR"
)

var errSessionMissing = userError(codeInternal, "session not initialised")

func userError(code, message string) *gqlerror.Error {
	return &gqlerror.Error{
		Message:    message,
		Extensions: map[string]any{"code": code},
	}
}

func badInput(message string) *gqlerror.Error {
	return userError(codeBadInput, message)
}

// cartError turns a refused cart mutation into the shopper-facing text.
func cartError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, cart.ErrMaxQuantityReached), errors.Is(err, cart.ErrQuantityExceedsStock):
		return userError(codeConflict, cart.UserMessage(err))
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidPromo):
		return badInput(cart.UserMessage(err))
	}
	logger.FromCtx(ctx).Error("cart update failed",
		zap.String("layer", "graph"),
		zap.Error(err),
	)
	return userError(codeInternal, cart.UserMessage(err))
}

// remoteError maps a failed remote call. An expired token carries the login
// redirect the page routes answer with.
func remoteError(ctx context.Context, err error, fallback string) error {
	switch {
	case api.IsUnauthorized(err):
		e := userError(codeUnauthenticated, "Session expired. Please login again.")
		e.Extensions["redirect"] = middleware.LoginPath
		return e
	case api.IsNotFound(err), errors.Is(err, product.ErrProductNotFound):
		return userError(codeNotFound, api.Message(err, fallback))
	}
	logger.FromCtx(ctx).Warn("remote call failed",
		zap.String("layer", "graph"),
		zap.Error(err),
	)
	return userError(codeUpstream, fallback)
}
