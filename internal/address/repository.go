package address

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"shopco-storefront/internal/api"
)

type Repository interface {
	List(ctx context.Context, token string) (*Response, error)
	Add(ctx context.Context, token string, addr Address) (*Response, error)
	Remove(ctx context.Context, token, id string) (*Response, error)
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

func (r *repository) List(ctx context.Context, token string) (*Response, error) {
	var res Response
	if err := r.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "addresses", Token: token}, &res); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return &res, nil
}

func (r *repository) Add(ctx context.Context, token string, addr Address) (*Response, error) {
	addr.ID = ""
	var res Response
	if err := r.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "addresses", Token: token, Body: addr}, &res); err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}
	return &res, nil
}

func (r *repository) Remove(ctx context.Context, token, id string) (*Response, error) {
	var res Response
	err := r.client.Do(ctx, api.Request{Method: http.MethodDelete, Path: "addresses/" + url.PathEscape(id), Token: token}, &res)
	if err != nil {
		return nil, fmt.Errorf("remove address %s: %w", id, err)
	}
	return &res, nil
}
