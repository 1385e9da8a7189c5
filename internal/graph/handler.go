package graph

import (
	"net/http"

	"shopco-storefront/internal/product"

	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
)

// NewHandler serves the graph over GET and POST. It expects the session
// middleware in front of it.
func NewHandler(products product.Service) http.Handler {
	srv := handler.New(NewSchema(&Resolver{ProductSvc: products}))
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})
	srv.SetQueryCache(lru.New(1000))
	return srv
}
