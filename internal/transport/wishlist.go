package transport

import (
	"errors"
	"fmt"
	"net/http"

	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/wishlist"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var wishlistSorts = []string{wishlist.SortNewest, wishlist.SortPriceLow, wishlist.SortPriceHigh, wishlist.SortName}

type wishlistResponse struct {
	Items       []wishlist.Item `json:"items"`
	Count       int             `json:"count"`
	Totals      wishlist.Totals `json:"totals"`
	Sort        string          `json:"sort"`
	SortOptions []string        `json:"sortOptions"`
}

type productRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

func wishlistView(ws *session.Workspace, sortBy string) (wishlistResponse, error) {
	items, err := wishlist.Sort(ws.Wishlist.Items(), sortBy)
	if err != nil {
		return wishlistResponse{}, err
	}
	if sortBy == "" {
		sortBy = wishlist.SortNewest
	}
	return wishlistResponse{
		Items:       items,
		Count:       len(items),
		Totals:      wishlist.Summarize(items),
		Sort:        sortBy,
		SortOptions: wishlistSorts,
	}, nil
}

func respondWishlist(w http.ResponseWriter, ws *session.Workspace, message string) {
	view, _ := wishlistView(ws, "")
	middleware.RespondWithJSON(w, http.StatusOK, ActionResponse{Message: message, Data: view})
}

func respondWishlistError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, wishlist.ErrItemNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "Item is not in your wishlist")
		return
	}
	logger.FromCtx(r.Context()).Error("wishlist update failed",
		zap.String("layer", "transport"),
		zap.Error(err),
	)
	middleware.RespondWithError(w, http.StatusInternalServerError, "Something went wrong with your wishlist. Please try again.")
}

func (h *Handler) Wishlist(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	view, err := wishlistView(ws, r.URL.Query().Get("sort"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown sort option")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req productRequest
	if !decode(w, r, &req) {
		return
	}
	p, ok := h.productFor(w, r, req.ProductID)
	if !ok {
		return
	}

	added, err := ws.Wishlist.ToggleWishlist(r.Context(), *p)
	if err != nil {
		respondWishlistError(w, r, err)
		return
	}
	msg := fmt.Sprintf("%s removed from wishlist", p.Title)
	if added {
		msg = fmt.Sprintf("%s added to wishlist!", p.Title)
	}
	respondWishlist(w, ws, msg)
}

func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req productRequest
	if !decode(w, r, &req) {
		return
	}
	p, ok := h.productFor(w, r, req.ProductID)
	if !ok {
		return
	}
	if err := ws.Wishlist.AddToWishlist(r.Context(), *p); err != nil {
		respondWishlistError(w, r, err)
		return
	}
	respondWishlist(w, ws, fmt.Sprintf("%s added to wishlist!", p.Title))
}

func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if err := ws.Wishlist.RemoveFromWishlist(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWishlistError(w, r, err)
		return
	}
	respondWishlist(w, ws, "")
}

func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if err := ws.Wishlist.ClearWishlist(r.Context()); err != nil {
		respondWishlistError(w, r, err)
		return
	}
	respondWishlist(w, ws, "")
}

func (h *Handler) MoveToCart(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	item, err := ws.MoveToCart(r.Context(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		respondWishlist(w, ws, fmt.Sprintf("%s moved to cart!", item.Title))
	case errors.Is(err, wishlist.ErrItemNotFound), errors.Is(err, wishlist.ErrFailedSaveWishlist):
		respondWishlistError(w, r, err)
	default:
		respondCartError(w, r, err)
	}
}

// MoveAllToCart moves what the cart accepts. A partial move still answers 200
// and reports how many items were left behind.
func (h *Handler) MoveAllToCart(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if ws.Wishlist.Count() == 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "Your wishlist is empty")
		return
	}

	moved, err := ws.MoveAllToCart(r.Context())
	if err == nil {
		respondWishlist(w, ws, "All items moved to cart!")
		return
	}
	if moved == 0 {
		respondCartError(w, r, err)
		return
	}
	respondWishlist(w, ws, fmt.Sprintf("%d items moved to cart, %d could not be added.", moved, ws.Wishlist.Count()))
}
