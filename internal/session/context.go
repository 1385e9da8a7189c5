package session

import "context"

type ctxKey struct{}

func NewContext(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, ctxKey{}, ws)
}

// FromContext returns the workspace put there by the session middleware.
func FromContext(ctx context.Context) (*Workspace, bool) {
	ws, ok := ctx.Value(ctxKey{}).(*Workspace)
	return ws, ok && ws != nil
}
