package graph

import (
	"context"

	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/session"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Directives holds the schema directive implementations.
type Directives struct {
	Auth func(ctx context.Context, obj any, next graphql.Resolver) (res any, err error)
}

// AuthDirective guards @auth fields the way RequireAuth guards page routes.
func AuthDirective(ctx context.Context, obj any, next graphql.Resolver) (res any, err error) {
	ws, ok := session.FromContext(ctx)
	if !ok || !ws.Auth.IsAuthenticated(ctx) {
		return nil, &gqlerror.Error{
			Message: "Please login to continue",
			Extensions: map[string]any{
				"code":     codeUnauthenticated,
				"redirect": middleware.LoginPath,
			},
		}
	}
	return next(ctx)
}
