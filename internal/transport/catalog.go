package transport

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type shopResponse struct {
	product.ShopPage
	Categories []product.Category `json:"categories"`
	Filter     shopFilter         `json:"filter"`
}

// shopFilter echoes the filter the page was built with.
type shopFilter struct {
	Search   string           `json:"search"`
	Category string           `json:"category"`
	Brand    string           `json:"brand"`
	MaxPrice *decimal.Decimal `json:"maxPrice,omitempty"`
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	home, err := h.products.Home(r.Context(), ws)
	if err != nil {
		respondRemoteError(w, err, "Failed to load products. Please try again.")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, home)
}

// Shop serves /shop and /shop/category/{category}. The path category wins
// over the category query parameter.
func (h *Handler) Shop(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	f, err := parseShopFilter(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.products.List(r.Context(), ws)
	if err != nil {
		respondRemoteError(w, err, "Failed to load products. Please try again.")
		return
	}

	// The sidebar renders without categories.
	categories, err := h.products.Categories(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Warn("failed to load categories",
			zap.String("layer", "transport"),
			zap.String("method", "Shop"),
			zap.Error(err),
		)
		categories = []product.Category{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, shopResponse{
		ShopPage:   product.Shop(products, f),
		Categories: categories,
		Filter: shopFilter{
			Search:   f.Search,
			Category: f.Category,
			Brand:    f.Brand,
			MaxPrice: f.MaxPrice,
		},
	})
}

func parseShopFilter(r *http.Request) (product.Filter, error) {
	q := r.URL.Query()
	f := product.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
	}

	if c := chi.URLParam(r, "category"); c != "" {
		name, err := url.PathUnescape(c)
		if err != nil {
			return f, errors.New("invalid category")
		}
		f.Category = name
	}

	if v := strings.TrimSpace(q.Get("maxPrice")); v != "" {
		limit, err := decimal.NewFromString(v)
		if err != nil || limit.IsNegative() {
			return f, errors.New("maxPrice must be a non-negative number")
		}
		f.MaxPrice = &limit
	}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return f, errors.New("page must be a positive integer")
		}
		f.Page = page
	}
	return f, nil
}

func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	detail, err := h.products.Detail(r.Context(), chi.URLParam(r, "id"), ws)
	if err != nil {
		respondRemoteError(w, err, "Product not found")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// productFor loads the product a cart or wishlist action refers to and
// answers the request itself when it cannot.
func (h *Handler) productFor(w http.ResponseWriter, r *http.Request, id string) (*product.Product, bool) {
	if id == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "productId is required")
		return nil, false
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		respondRemoteError(w, err, "Product not found")
		return nil, false
	}
	return p, true
}
