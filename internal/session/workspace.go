package session

import (
	"context"
	"errors"
	"fmt"

	"shopco-storefront/internal/address"
	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/checkout"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/order"
	"shopco-storefront/internal/storage"
	"shopco-storefront/internal/user"
	"shopco-storefront/internal/wishlist"

	"go.uber.org/zap"
)

// Deps are the process-wide collaborators every workspace is built from.
type Deps struct {
	Store     storage.Store
	Carts     cart.Repository
	Orders    order.Repository
	Users     user.Repository
	Addresses address.Repository
	// ReturnURL is where the hosted payment page sends the visitor back to.
	ReturnURL string
}

// Workspace holds the stores of one storefront session.
type Workspace struct {
	ID        string
	Auth      *auth.TokenStore
	Cart      *cart.Store
	Wishlist  *wishlist.Store
	Orders    *order.Reader
	Checkout  *checkout.Flow
	Account   user.Service
	Addresses address.Service
}

// Build rehydrates the workspace of sid from the session namespace of deps.Store.
func Build(ctx context.Context, sid string, deps Deps) (*Workspace, error) {
	kv := storage.Namespace(deps.Store, storage.SessionNamespace(sid))
	tokens := auth.NewTokenStore(kv)

	c, err := cart.NewStore(ctx, kv, tokens, deps.Carts)
	if err != nil {
		return nil, fmt.Errorf("build cart: %w", err)
	}
	w, err := wishlist.NewStore(ctx, kv)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("build wishlist: %w", err)
	}

	account := user.NewService(deps.Users, kv, tokens)
	return &Workspace{
		ID:        sid,
		Auth:      tokens,
		Cart:      c,
		Wishlist:  w,
		Orders:    order.NewReader(deps.Orders, tokens),
		Checkout:  checkout.NewFlow(c, deps.Orders, tokens, account, deps.ReturnURL),
		Account:   account,
		Addresses: address.NewService(deps.Addresses, tokens),
	}, nil
}

func (w *Workspace) IsInWishlist(productID string) bool {
	return w.Wishlist.IsInWishlist(productID)
}

func (w *Workspace) IsInCart(productID string) bool {
	return w.Cart.IsInCart(productID)
}

// MoveToCart adds one unit of a wishlist item to the cart and drops it from
// the wishlist. When the cart refuses it the item stays in the wishlist.
func (w *Workspace) MoveToCart(ctx context.Context, productID string) (wishlist.Item, error) {
	item, ok := w.findWishlistItem(productID)
	if !ok {
		return wishlist.Item{}, wishlist.ErrItemNotFound
	}
	if err := w.Cart.AddToCart(ctx, item.Product(), 1, "", ""); err != nil {
		return item, err
	}
	if err := w.Wishlist.RemoveFromWishlist(ctx, productID); err != nil {
		return item, err
	}
	return item, nil
}

// MoveAllToCart moves every wishlist item it can and reports how many moved.
// Items the cart refused remain in the wishlist; their errors are joined.
func (w *Workspace) MoveAllToCart(ctx context.Context) (int, error) {
	var (
		moved int
		errs  []error
	)
	for _, item := range w.Wishlist.Items() {
		if _, err := w.MoveToCart(ctx, item.ID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", item.ID, err))
			continue
		}
		moved++
	}
	if len(errs) > 0 {
		logger.FromCtx(ctx).Warn("some wishlist items were not moved",
			zap.String("layer", "session"),
			zap.String("method", "MoveAllToCart"),
			zap.Int("moved", moved),
			zap.Int("failed", len(errs)),
		)
	}
	return moved, errors.Join(errs...)
}

func (w *Workspace) findWishlistItem(productID string) (wishlist.Item, bool) {
	for _, it := range w.Wishlist.Items() {
		if it.ID == productID {
			return it, true
		}
	}
	return wishlist.Item{}, false
}

// Close waits for background cart syncs and ends every subscription.
func (w *Workspace) Close() {
	w.Cart.Close()
	w.Wishlist.Close()
	w.Orders.Close()
}
