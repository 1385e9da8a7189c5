package graph

import (
	"context"

	"shopco-storefront/internal/graph/model"
	"shopco-storefront/internal/product"
)

// Products serves the shop grid: the whole catalogue filtered and paged.
func (r *queryResolver) Products(ctx context.Context, filter *model.ShopFilter) (*product.ShopPage, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	f, err := shopFilter(filter)
	if err != nil {
		return nil, err
	}

	products, err := r.ProductSvc.List(ctx, ws)
	if err != nil {
		return nil, remoteError(ctx, err, "Failed to load products. Please try again.")
	}
	page := product.Shop(products, f)
	return &page, nil
}

func (r *queryResolver) Product(ctx context.Context, id string) (*product.Detail, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	detail, err := r.ProductSvc.Detail(ctx, id, ws)
	if err != nil {
		return nil, remoteError(ctx, err, "Product not found")
	}
	return detail, nil
}

func shopFilter(in *model.ShopFilter) (product.Filter, error) {
	if in == nil {
		return product.Filter{}, nil
	}
	f := product.Filter{
		Search:   model.Value(in.Search),
		Category: model.Value(in.Category),
		Brand:    model.Value(in.Brand),
		MaxPrice: in.MaxPrice,
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		return f, badInput("maxPrice must be a non-negative number")
	}
	if in.Page != nil {
		if *in.Page < 1 {
			return f, badInput("page must be a positive integer")
		}
		f.Page = *in.Page
	}
	return f, nil
}

// productFor loads the product a cart or wishlist mutation refers to.
func (r *mutationResolver) productFor(ctx context.Context, id string) (*product.Product, error) {
	if id == "" {
		return nil, badInput("productId is required")
	}
	p, err := r.ProductSvc.Get(ctx, id)
	if err != nil {
		return nil, remoteError(ctx, err, "Product not found")
	}
	return p, nil
}
