package graph

import (
	"context"
	"errors"
	"fmt"

	"shopco-storefront/internal/graph/model"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/wishlist"

	"go.uber.org/zap"
)

var wishlistSorts = []string{wishlist.SortNewest, wishlist.SortPriceLow, wishlist.SortPriceHigh, wishlist.SortName}

func wishlistView(ws *session.Workspace, sortBy, message string) (*model.Wishlist, error) {
	items, err := wishlist.Sort(ws.Wishlist.Items(), sortBy)
	if err != nil {
		return nil, err
	}
	if sortBy == "" {
		sortBy = wishlist.SortNewest
	}
	return &model.Wishlist{
		Items:       items,
		Count:       len(items),
		Totals:      wishlist.Summarize(items),
		Sort:        sortBy,
		SortOptions: wishlistSorts,
		Message:     message,
	}, nil
}

func wishlistError(ctx context.Context, err error) error {
	if errors.Is(err, wishlist.ErrItemNotFound) {
		return userError(codeNotFound, "Item is not in your wishlist")
	}
	logger.FromCtx(ctx).Error("wishlist update failed",
		zap.String("layer", "graph"),
		zap.Error(err),
	)
	return userError(codeInternal, "Something went wrong with your wishlist. Please try again.")
}

func (r *queryResolver) Wishlist(ctx context.Context, sort *string) (*model.Wishlist, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	view, err := wishlistView(ws, model.Value(sort), "")
	if err != nil {
		return nil, badInput("unknown sort option")
	}
	return view, nil
}

func (r *mutationResolver) ToggleWishlist(ctx context.Context, productID string) (*model.WishlistToggle, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	p, err := r.productFor(ctx, productID)
	if err != nil {
		return nil, err
	}

	added, err := ws.Wishlist.ToggleWishlist(ctx, *p)
	if err != nil {
		return nil, wishlistError(ctx, err)
	}
	msg := fmt.Sprintf("%s removed from wishlist", p.Title)
	if added {
		msg = fmt.Sprintf("%s added to wishlist!", p.Title)
	}
	view, _ := wishlistView(ws, "", msg)
	return &model.WishlistToggle{Added: added, Wishlist: view}, nil
}

// MoveToCart moves one wishlist item into the cart. A refused cart add
// leaves the item in the wishlist.
func (r *mutationResolver) MoveToCart(ctx context.Context, productID string) (*model.Wishlist, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	item, err := ws.MoveToCart(ctx, productID)
	switch {
	case err == nil:
		view, _ := wishlistView(ws, "", fmt.Sprintf("%s moved to cart!", item.Title))
		return view, nil
	case errors.Is(err, wishlist.ErrItemNotFound), errors.Is(err, wishlist.ErrFailedSaveWishlist):
		return nil, wishlistError(ctx, err)
	default:
		return nil, cartError(ctx, err)
	}
}
