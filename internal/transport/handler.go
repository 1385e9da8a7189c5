package transport

import (
	"errors"
	"net/http"
	"time"

	"shopco-storefront/internal/api"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/validate"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// sessionExpiredDelay keeps the expiry notice up before the login redirect.
const sessionExpiredDelay = 2 * time.Second

// ActionResponse is the body of every successful mutation. Redirect is where
// the page should go next, RedirectAfterMS how long to show Message first.
type ActionResponse struct {
	Message         string `json:"message,omitempty"`
	Redirect        string `json:"redirect,omitempty"`
	RedirectAfterMS int64  `json:"redirect_after_ms,omitempty"`
	Data            any    `json:"data,omitempty"`
}

// Handler serves the storefront page routes. Per-visitor state comes from
// the workspace the session middleware put in the request context.
type Handler struct {
	products product.Service
	shutdown <-chan struct{}
}

// NewHandler builds the page handlers. Closing shutdown ends open event
// streams; a nil channel keeps them open until their clients leave.
func NewHandler(products product.Service, shutdown <-chan struct{}) *Handler {
	return &Handler{products: products, shutdown: shutdown}
}

// RegisterRoutes registers all page routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", withWorkspace(h.LoginPage))
		r.Post("/signin", withWorkspace(h.SignIn))
		r.Post("/signup", withWorkspace(h.SignUp))
		r.Post("/logout", withWorkspace(h.Logout))
	})

	r.Get("/home", withWorkspace(h.Home))
	r.Get("/shop", withWorkspace(h.Shop))
	r.Get("/shop/category/{category}", withWorkspace(h.Shop))
	r.Get("/product/{id}", withWorkspace(h.ProductDetail))

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", withWorkspace(h.Cart))
		r.Delete("/", withWorkspace(h.ClearCart))
		r.Post("/items", withWorkspace(h.AddToCart))
		r.Patch("/items/{id}", withWorkspace(h.UpdateCartItem))
		r.Delete("/items/{id}", withWorkspace(h.RemoveCartItem))
		r.Post("/promo", withWorkspace(h.ApplyPromo))
		r.Delete("/promo", withWorkspace(h.RemovePromo))
		r.Post("/proceed", withWorkspace(h.ProceedToCheckout))
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", withWorkspace(h.Wishlist))
		r.Delete("/", withWorkspace(h.ClearWishlist))
		r.Post("/toggle", withWorkspace(h.ToggleWishlist))
		r.Post("/items", withWorkspace(h.AddToWishlist))
		r.Delete("/items/{id}", withWorkspace(h.RemoveFromWishlist))
		r.Post("/items/{id}/move-to-cart", withWorkspace(h.MoveToCart))
		r.Post("/move-all", withWorkspace(h.MoveAllToCart))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", withWorkspace(h.Checkout))
			r.Put("/shipping", withWorkspace(h.SetShipping))
			r.Post("/next", withWorkspace(h.NextStep))
			r.Post("/previous", withWorkspace(h.PreviousStep))
			r.Post("/step", withWorkspace(h.GoToStep))
			r.Put("/payment-method", withWorkspace(h.SelectPaymentMethod))
			r.Post("/place-order", withWorkspace(h.PlaceOrder))
		})

		r.Get("/orders", withWorkspace(h.Orders))
		r.Get("/orders/{id}", withWorkspace(h.OrderDetail))

		r.Get("/account", withWorkspace(h.Account))
		r.Get("/account/addresses", withWorkspace(h.Addresses))
		r.Post("/account/addresses", withWorkspace(h.AddAddress))
		r.Delete("/account/addresses/{id}", withWorkspace(h.RemoveAddress))
	})

	r.Get("/events", withWorkspace(h.Events))
}

type workspaceHandler func(w http.ResponseWriter, r *http.Request, ws *session.Workspace)

func withWorkspace(fn workspaceHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, ok := session.FromContext(r.Context())
		if !ok {
			logger.FromCtx(r.Context()).Error("no workspace in request context",
				zap.String("layer", "transport"),
				zap.String("path", r.URL.Path),
			)
			middleware.RespondWithError(w, http.StatusInternalServerError, "session not initialised")
			return
		}
		fn(w, r, ws)
	}
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := validate.Decode(r.Body, dst)
	if err == nil {
		return true
	}
	if fields := validate.Fields(err); len(fields) > 0 {
		middleware.RespondWithValidationErrors(w, fields)
		return false
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
	return false
}

// respondRemoteError maps a failed remote call onto the page response.
// An expired token sends the visitor back to the login page.
func respondRemoteError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case api.IsUnauthorized(err):
		middleware.RespondWithRedirect(w, http.StatusUnauthorized,
			"Session expired. Please login again.", middleware.LoginPath, sessionExpiredDelay)
	case api.IsNotFound(err), errors.Is(err, product.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, api.Message(err, fallback))
	default:
		middleware.RespondWithError(w, http.StatusBadGateway, fallback)
	}
}
