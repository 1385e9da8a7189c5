package graph

import (
	"context"
	"fmt"

	"shopco-storefront/internal/graph/model"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/session"

	"go.uber.org/zap"
)

func cartView(ws *session.Workspace, message string) *model.Cart {
	return &model.Cart{
		Items:   ws.Cart.Items(),
		Count:   ws.Cart.Count(),
		Summary: ws.Cart.Summary(),
		Promo:   ws.Cart.Promo(),
		Message: message,
	}
}

func (r *queryResolver) Cart(ctx context.Context) (*model.Cart, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	return cartView(ws, ""), nil
}

// AddToCart adds one line, or more units to an existing one. Quantity
// defaults to 1.
func (r *mutationResolver) AddToCart(ctx context.Context, input model.AddToCartInput) (*model.Cart, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "graph"),
		zap.String("product_id", input.ProductID),
	)

	qty := 1
	if input.Quantity != nil {
		qty = *input.Quantity
	}
	p, err := r.productFor(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if err := ws.Cart.AddToCart(ctx, *p, qty, model.Value(input.Size), model.Value(input.Color)); err != nil {
		return nil, cartError(ctx, err)
	}

	log.Debug("item added to cart", zap.Int("quantity", qty))
	return cartView(ws, fmt.Sprintf("%s added to cart!", p.Title)), nil
}

// UpdateCartItem sets the quantity of one line. Zero or less removes it.
func (r *mutationResolver) UpdateCartItem(ctx context.Context, input model.UpdateCartItemInput) (*model.Cart, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	err = ws.Cart.UpdateQuantity(ctx, input.ProductID, model.Value(input.Size), model.Value(input.Color), input.Quantity)
	if err != nil {
		return nil, cartError(ctx, err)
	}
	return cartView(ws, ""), nil
}

func (r *mutationResolver) RemoveFromCart(ctx context.Context, productID string, size, color *string) (*model.Cart, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Cart.RemoveFromCart(ctx, productID, model.Value(size), model.Value(color)); err != nil {
		return nil, cartError(ctx, err)
	}
	return cartView(ws, ""), nil
}

func (r *mutationResolver) ClearCart(ctx context.Context) (*model.Cart, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Cart.ClearCart(ctx); err != nil {
		return nil, cartError(ctx, err)
	}
	return cartView(ws, ""), nil
}

func (r *mutationResolver) ApplyPromo(ctx context.Context, code string) (*model.Cart, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	promo, err := ws.Cart.ApplyPromo(ctx, code)
	if err != nil {
		return nil, cartError(ctx, err)
	}
	return cartView(ws, fmt.Sprintf("Promo Applied! You saved $%s", promo.Discount.StringFixed(2))), nil
}

func (r *mutationResolver) RemovePromo(ctx context.Context) (*model.Cart, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	if err := ws.Cart.RemovePromo(ctx); err != nil {
		return nil, cartError(ctx, err)
	}
	return cartView(ws, ""), nil
}
