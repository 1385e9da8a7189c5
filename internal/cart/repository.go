package cart

import (
	"context"
	"fmt"
	"net/http"

	"shopco-storefront/internal/api"
)

// Repository is the remote cart resource.
type Repository interface {
	GetCart(ctx context.Context, token string) (*RemoteCart, error)
	AddItem(ctx context.Context, token, productID string) (*RemoteCart, error)
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

func (r *repository) GetCart(ctx context.Context, token string) (*RemoteCart, error) {
	var res RemoteCart
	if err := r.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "cart", Token: token}, &res); err != nil {
		return nil, fmt.Errorf("get remote cart: %w", err)
	}
	return &res, nil
}

func (r *repository) AddItem(ctx context.Context, token, productID string) (*RemoteCart, error) {
	var res RemoteCart
	err := r.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "cart",
		Token:  token,
		Body:   map[string]string{"productId": productID},
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("add to remote cart: %w", err)
	}
	return &res, nil
}
