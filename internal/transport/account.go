package transport

import (
	"errors"
	"net/http"

	"shopco-storefront/internal/address"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/user"
	"shopco-storefront/internal/validate"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type accountResponse struct {
	Profile   *user.Profile     `json:"profile"`
	Initials  string            `json:"initials"`
	Addresses []address.Address `json:"addresses"`
	Notice    string            `json:"notice,omitempty"`
	Cart      int               `json:"cartCount"`
	Wishlist  int               `json:"wishlistCount"`
}

// Account shows the cached profile and the saved addresses. A failed address
// fetch leaves the page up with a notice.
func (h *Handler) Account(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	resp := accountResponse{
		Addresses: []address.Address{},
		Cart:      ws.Cart.Count(),
		Wishlist:  ws.Wishlist.Count(),
	}
	name := ""
	if p, ok := ws.Account.Profile(r.Context()); ok {
		resp.Profile = p
		name = p.Name
	}
	resp.Initials = user.Initials(name)

	addrs, err := ws.Addresses.List(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Warn("account page without addresses",
			zap.String("layer", "transport"),
			zap.Error(err),
		)
		resp.Notice = "Failed to load addresses."
	} else {
		resp.Addresses = addrs
	}
	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Addresses(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	addrs, err := ws.Addresses.List(r.Context())
	if err != nil {
		respondAddressError(w, err, "Failed to load addresses.")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, addrs)
}

func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var addr address.Address
	if !decode(w, r, &addr) {
		return
	}
	addrs, err := ws.Addresses.Add(r.Context(), addr)
	if err != nil {
		respondAddressError(w, err, "Failed to add address. Please try again.")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, ActionResponse{
		Message: "Address added successfully!",
		Data:    addrs,
	})
}

func (h *Handler) RemoveAddress(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	addrs, err := ws.Addresses.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondAddressError(w, err, "Failed to remove address.")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ActionResponse{
		Message: "Address removed successfully!",
		Data:    addrs,
	})
}

func respondAddressError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case len(validate.Fields(err)) > 0:
		middleware.RespondWithValidationErrors(w, validate.Fields(err))
	case errors.Is(err, address.ErrNotAuthenticated):
		middleware.RespondWithRedirect(w, http.StatusUnauthorized, "Please login to continue", middleware.LoginPath, 0)
	case errors.Is(err, address.ErrMissingAddressID):
		middleware.RespondWithError(w, http.StatusBadRequest, "address id is required")
	default:
		respondRemoteError(w, err, fallback)
	}
}
