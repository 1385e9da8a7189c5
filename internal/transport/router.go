package transport

import (
	"context"
	"net/http"

	"shopco-storefront/internal/graph"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/metrics"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Workspaces is the session registry as the router sees it.
type Workspaces interface {
	Acquire(ctx context.Context, sid string) (*session.Workspace, error)
	Release(ws *session.Workspace)
	Len() int
}

type RouterConfig struct {
	Workspaces     Workspaces
	Products       product.Service
	Limiter        *middleware.RateLimiter
	AllowedOrigins []string
	SecureCookie   bool

	// Shutdown is closed when the server starts draining.
	Shutdown <-chan struct{}
}

// NewRouter mounts every page route and the graph endpoint behind the
// session middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RealIP)
	router.Use(chimw.Recoverer)
	router.Use(logger.RequestIDMiddleware)
	router.Use(logger.LoggingMiddleware)
	router.Use(middleware.ErrorHandlingMiddleware)
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	router.Get("/health", health(cfg.Workspaces))

	h := NewHandler(cfg.Products, cfg.Shutdown)
	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Workspaces, cfg.SecureCookie))
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware)
		}
		h.RegisterRoutes(r)
		r.Handle("/graphql", graph.NewHandler(cfg.Products))
	})

	return router
}

type healthResponse struct {
	Status     string           `json:"status"`
	Workspaces int              `json:"workspaces"`
	Metrics    metrics.Snapshot `json:"metrics"`
}

func health(workspaces Workspaces) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.RespondWithJSON(w, http.StatusOK, healthResponse{
			Status:     "ok",
			Workspaces: workspaces.Len(),
			Metrics:    metrics.Read(),
		})
	}
}
