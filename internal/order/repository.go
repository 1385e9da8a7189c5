package order

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"shopco-storefront/internal/api"
)

type Repository interface {
	GetUserOrders(ctx context.Context, token, userID string) ([]Order, error)
	CreateCashOrder(ctx context.Context, token, cartID string, shipping ShippingAddress) (*CashOrderResponse, error)
	CreateCheckoutSession(ctx context.Context, token, cartID string, shipping ShippingAddress, returnURL string) (*CheckoutSession, error)
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

type shippingBody struct {
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// GetUserOrders returns the user's orders; the endpoint answers with a bare array.
func (r *repository) GetUserOrders(ctx context.Context, token, userID string) ([]Order, error) {
	var orders []Order
	err := r.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "orders/user/" + url.PathEscape(userID),
		Token:  token,
	}, &orders)
	if err != nil {
		return nil, fmt.Errorf("get user orders: %w", err)
	}
	return orders, nil
}

func (r *repository) CreateCashOrder(ctx context.Context, token, cartID string, shipping ShippingAddress) (*CashOrderResponse, error) {
	var res CashOrderResponse
	err := r.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "orders/" + url.PathEscape(cartID),
		Token:  token,
		Body:   shippingBody{ShippingAddress: shipping},
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("create cash order: %w", err)
	}
	return &res, nil
}

func (r *repository) CreateCheckoutSession(ctx context.Context, token, cartID string, shipping ShippingAddress, returnURL string) (*CheckoutSession, error) {
	var res CheckoutSession
	err := r.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "orders/checkout-session/" + url.PathEscape(cartID),
		Query:  url.Values{"url": {returnURL}},
		Token:  token,
		Body:   shippingBody{ShippingAddress: shipping},
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &res, nil
}
