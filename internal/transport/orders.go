package transport

import (
	"errors"
	"net/http"
	"slices"

	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/order"
	"shopco-storefront/internal/session"

	"github.com/go-chi/chi/v5"
)

type ordersResponse struct {
	Orders  []order.Order  `json:"orders"`
	Status  order.Status   `json:"status"`
	Message string         `json:"message,omitempty"`
	Stats   order.Stats    `json:"stats"`
	Filter  order.Filter   `json:"filter"`
	Filters []order.Filter `json:"filters"`
}

type orderDetailResponse struct {
	Order       order.Order `json:"order"`
	StatusLabel string      `json:"statusLabel"`
	TotalItems  int         `json:"totalItems"`
}

// Orders fetches the order history and applies the ?filter= tab. Stats
// always cover the whole history.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	f := order.Filter(r.URL.Query().Get("filter"))
	if f == "" {
		f = order.FilterAll
	}
	if !slices.Contains(order.Filters, f) {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown order filter")
		return
	}

	res := ws.Orders.GetUserOrders(r.Context(), ws.Auth.UserID(r.Context()))
	switch res.Status {
	case order.StatusUnauthorized:
		middleware.RespondWithRedirect(w, http.StatusUnauthorized, res.Message(), middleware.LoginPath, 0)
		return
	case order.StatusMissingUser:
		middleware.RespondWithRedirect(w, http.StatusUnauthorized, res.Message(), middleware.LoginPath+"?returnUrl=/orders", 0)
		return
	}

	filtered, _ := order.Apply(res.Orders, f)
	middleware.RespondWithJSON(w, http.StatusOK, ordersResponse{
		Orders:  filtered,
		Status:  res.Status,
		Message: res.Message(),
		Stats:   order.ComputeStats(res.Orders),
		Filter:  f,
		Filters: order.Filters,
	})
}

// OrderDetail looks the order up in the last fetched history, fetching it
// first when the visitor lands here directly.
func (h *Handler) OrderDetail(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	id := chi.URLParam(r, "id")
	o, err := ws.Orders.Find(id)
	if errors.Is(err, order.ErrOrderNotFound) {
		ws.Orders.GetUserOrders(r.Context(), ws.Auth.UserID(r.Context()))
		o, err = ws.Orders.Find(id)
	}
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Order not found")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, orderDetailResponse{
		Order:       o,
		StatusLabel: order.StatusLabel(o),
		TotalItems:  order.TotalItems(o),
	})
}
