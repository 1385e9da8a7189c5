package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const checkoutPath = "/checkout"

type cartResponse struct {
	Items   []cart.Item  `json:"items"`
	Count   int          `json:"count"`
	Summary cart.Summary `json:"summary"`
	Promo   *cart.Promo  `json:"promo,omitempty"`
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateCartItemRequest struct {
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

type promoRequest struct {
	Code string `json:"code" validate:"required"`
}

func cartView(ws *session.Workspace) cartResponse {
	return cartResponse{
		Items:   ws.Cart.Items(),
		Count:   ws.Cart.Count(),
		Summary: ws.Cart.Summary(),
		Promo:   ws.Cart.Promo(),
	}
}

// respondCartError answers a refused cart mutation with the shopper-facing text.
func respondCartError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrMaxQuantityReached), errors.Is(err, cart.ErrQuantityExceedsStock):
		middleware.RespondWithError(w, http.StatusConflict, cart.UserMessage(err))
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidPromo):
		middleware.RespondWithError(w, http.StatusBadRequest, cart.UserMessage(err))
	default:
		logger.FromCtx(r.Context()).Error("cart update failed",
			zap.String("layer", "transport"),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, cart.UserMessage(err))
	}
}

func (h *Handler) Cart(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	middleware.RespondWithJSON(w, http.StatusOK, cartView(ws))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req addToCartRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, ok := h.productFor(w, r, req.ProductID)
	if !ok {
		return
	}
	if err := ws.Cart.AddToCart(r.Context(), *p, req.Quantity, req.Size, req.Color); err != nil {
		respondCartError(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ActionResponse{
		Message: fmt.Sprintf("%s added to cart!", p.Title),
		Data:    cartView(ws),
	})
}

// UpdateCartItem sets the quantity of one line. Zero or less removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req updateCartItemRequest
	if !decode(w, r, &req) {
		return
	}
	if err := ws.Cart.UpdateQuantity(r.Context(), chi.URLParam(r, "id"), req.Size, req.Color, req.Quantity); err != nil {
		respondCartError(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, cartView(ws))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	q := r.URL.Query()
	if err := ws.Cart.RemoveFromCart(r.Context(), chi.URLParam(r, "id"), q.Get("size"), q.Get("color")); err != nil {
		respondCartError(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, cartView(ws))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if err := ws.Cart.ClearCart(r.Context()); err != nil {
		respondCartError(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, cartView(ws))
}

func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req promoRequest
	if !decode(w, r, &req) {
		return
	}
	promo, err := ws.Cart.ApplyPromo(r.Context(), req.Code)
	if err != nil {
		respondCartError(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ActionResponse{
		Message: fmt.Sprintf("Promo Applied! You saved $%s", promo.Discount.StringFixed(2)),
		Data:    cartView(ws),
	})
}

func (h *Handler) RemovePromo(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if err := ws.Cart.RemovePromo(r.Context()); err != nil {
		respondCartError(w, r, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, cartView(ws))
}

// ProceedToCheckout sends a logged-in visitor with a non-empty cart to the
// checkout page, and anyone else to login with a return address.
func (h *Handler) ProceedToCheckout(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if ws.Cart.Count() == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "Cart is empty!")
		return
	}
	if !ws.Auth.IsAuthenticated(r.Context()) {
		login := middleware.LoginPath + "?returnUrl=" + url.QueryEscape(checkoutPath)
		middleware.RespondWithRedirect(w, http.StatusUnauthorized, "Please login to proceed to checkout", login, 0)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ActionResponse{Redirect: checkoutPath})
}
