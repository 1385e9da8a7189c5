package order

import (
	"context"
	"slices"

	"shopco-storefront/internal/api"
	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/broadcast"
	"shopco-storefront/internal/logger"

	"go.uber.org/zap"
)

// Status classifies the outcome of the last fetch.
type Status string

const (
	StatusOK           Status = "ok"
	StatusEmpty        Status = "empty"
	StatusMissingUser  Status = "missing_user"
	StatusUnauthorized Status = "unauthorized"
	StatusNotFound     Status = "not_found"
	StatusFailed       Status = "failed"
)

// Result is what a fetch yields. Orders is never nil.
type Result struct {
	Orders []Order `json:"orders"`
	Status Status  `json:"status"`
}

// Message is the text shown above the order list, or "" when there are orders.
func (r Result) Message() string {
	switch r.Status {
	case StatusEmpty, StatusNotFound:
		return "You have no orders yet. Start shopping!"
	case StatusUnauthorized:
		return "Session expired. Please login again."
	case StatusMissingUser:
		return "Please log in to view your orders."
	case StatusFailed:
		return "Failed to load orders. Please try again."
	default:
		return ""
	}
}

// Reader fetches the user's order history and keeps the last list.
type Reader struct {
	repo    Repository
	session auth.Session
	orders  *broadcast.Subject[[]Order]
}

func NewReader(repo Repository, session auth.Session) *Reader {
	return &Reader{repo: repo, session: session, orders: broadcast.NewSubject([]Order{})}
}

// GetUserOrders never returns an error: failures publish and return an empty
// list and are classified in Result.Status.
func (r *Reader) GetUserOrders(ctx context.Context, userID string) Result {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "order"),
		zap.String("method", "GetUserOrders"),
		zap.String("user_id", userID),
	)

	if userID == "" {
		log.Warn("user id is required")
		return Result{Orders: []Order{}, Status: StatusMissingUser}
	}

	orders, err := r.repo.GetUserOrders(ctx, r.session.Token(ctx), userID)
	if err != nil {
		status := StatusFailed
		switch {
		case api.IsUnauthorized(err):
			status = StatusUnauthorized
			log.Warn("unauthorized, invalid token", zap.Error(err))
		case api.IsNotFound(err):
			status = StatusNotFound
			log.Info("no orders found for user")
		default:
			log.Error("failed to fetch orders", zap.Error(err))
		}
		r.publish([]Order{})
		return Result{Orders: []Order{}, Status: status}
	}

	if orders == nil {
		orders = []Order{}
	}
	r.publish(orders)

	status := StatusOK
	if len(orders) == 0 {
		status = StatusEmpty
	}
	return Result{Orders: slices.Clone(orders), Status: status}
}

func (r *Reader) publish(orders []Order) {
	r.orders.Next(orders)
}

// Current is the last fetched list.
func (r *Reader) Current() []Order {
	return slices.Clone(r.orders.Value())
}

func (r *Reader) Find(id string) (Order, error) {
	for _, o := range r.orders.Value() {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrOrderNotFound
}

// Filter applies f to the last fetched list.
func (r *Reader) Filter(f Filter) ([]Order, error) {
	return Apply(r.orders.Value(), f)
}

// Clear forgets the fetched orders, e.g. on logout.
func (r *Reader) Clear() {
	r.publish([]Order{})
}

func (r *Reader) Subscribe() *broadcast.Subscription[[]Order] {
	return r.orders.Subscribe()
}

func (r *Reader) Close() {
	r.orders.Close()
}
