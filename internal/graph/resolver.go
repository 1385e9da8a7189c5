package graph

import (
	"context"

	"shopco-storefront/internal/product"
	"shopco-storefront/internal/session"

	"github.com/99designs/gqlgen/graphql"
)

// Resolver serves the storefront graph. Per-visitor state comes from the
// workspace the session middleware put in the request context.
type Resolver struct {
	ProductSvc product.Service
}

type queryResolver struct{ *Resolver }

type mutationResolver struct{ *Resolver }

func (r *Resolver) Query() *queryResolver       { return &queryResolver{r} }
func (r *Resolver) Mutation() *mutationResolver { return &mutationResolver{r} }

func NewSchema(r *Resolver) graphql.ExecutableSchema {
	return newExecutableSchema(r, Directives{Auth: AuthDirective})
}

func workspace(ctx context.Context) (*session.Workspace, error) {
	ws, ok := session.FromContext(ctx)
	if !ok {
		return nil, errSessionMissing
	}
	return ws, nil
}
