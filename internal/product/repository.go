package product

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"shopco-storefront/internal/api"
)

type Repository interface {
	GetProducts(ctx context.Context, q Query) (*ListResult, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetCategories(ctx context.Context) ([]Category, error)
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

func (r *repository) GetProducts(ctx context.Context, q Query) (*ListResult, error) {
	params := url.Values{}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	for _, id := range q.CategoryIDs {
		params.Add("category[in]", id)
	}

	var res ListResult
	if err := r.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "products", Query: params}, &res); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return &res, nil
}

func (r *repository) GetProduct(ctx context.Context, id string) (*Product, error) {
	var res struct {
		Data Product `json:"data"`
	}
	err := r.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "products/" + url.PathEscape(id)}, &res)
	if api.IsNotFound(err) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	if res.Data.ID == "" {
		return nil, ErrProductNotFound
	}
	return &res.Data, nil
}

func (r *repository) GetCategories(ctx context.Context) ([]Category, error) {
	var res struct {
		Data []Category `json:"data"`
	}
	if err := r.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "categories"}, &res); err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return res.Data, nil
}
