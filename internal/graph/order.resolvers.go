package graph

import (
	"context"
	"errors"
	"slices"

	"shopco-storefront/internal/graph/model"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/order"
)

// Orders fetches the order history and applies the filter tab. Stats always
// cover the whole history.
func (r *queryResolver) Orders(ctx context.Context, filter *string) (*model.OrderHistory, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	f := order.Filter(model.Value(filter))
	if f == "" {
		f = order.FilterAll
	}
	if !slices.Contains(order.Filters, f) {
		return nil, badInput("unknown order filter")
	}

	res := ws.Orders.GetUserOrders(ctx, ws.Auth.UserID(ctx))
	switch res.Status {
	case order.StatusUnauthorized, order.StatusMissingUser:
		e := userError(codeUnauthenticated, res.Message())
		e.Extensions["redirect"] = middleware.LoginPath
		return nil, e
	}

	filtered, _ := order.Apply(res.Orders, f)
	return &model.OrderHistory{
		Orders:  filtered,
		Status:  res.Status,
		Message: res.Message(),
		Stats:   order.ComputeStats(res.Orders),
		Filter:  f,
		Filters: order.Filters,
	}, nil
}

// Order looks the order up in the last fetched history, fetching it first
// when nothing was loaded yet.
func (r *queryResolver) Order(ctx context.Context, id string) (*model.OrderDetail, error) {
	ws, err := workspace(ctx)
	if err != nil {
		return nil, err
	}
	o, err := ws.Orders.Find(id)
	if errors.Is(err, order.ErrOrderNotFound) {
		ws.Orders.GetUserOrders(ctx, ws.Auth.UserID(ctx))
		o, err = ws.Orders.Find(id)
	}
	if err != nil {
		return nil, userError(codeNotFound, "Order not found")
	}
	return &model.OrderDetail{
		Order:       o,
		StatusLabel: order.StatusLabel(o),
		TotalItems:  order.TotalItems(o),
	}, nil
}
