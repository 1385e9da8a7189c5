package middleware

import (
	"context"
	"net/http"
	"time"

	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/session"

	"go.uber.org/zap"
)

const (
	LoginPath = "/auth/login"

	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// WorkspaceSource hands out the workspace of a session id for the length of
// one request.
type WorkspaceSource interface {
	Acquire(ctx context.Context, sid string) (*session.Workspace, error)
	Release(ws *session.Workspace)
}

// Session resolves the storefront session of the request, minting one when the
// visitor has none, and puts its workspace in the request context.
func Session(workspaces WorkspaceSource, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := auth.ExtractSessionID(r)
			if sid == "" {
				sid = auth.NewSessionID()
			}
			http.SetCookie(w, &http.Cookie{
				Name:     auth.SessionCookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   secureCookie,
				SameSite: http.SameSiteLaxMode,
			})
			w.Header().Set(auth.SessionHeader, sid)

			ctx := logger.WithSessionID(r.Context(), sid)
			ws, err := workspaces.Acquire(ctx, sid)
			if err != nil {
				logger.FromCtx(ctx).Error("failed to open session",
					zap.String("layer", "middleware"),
					zap.Error(err),
				)
				RespondWithError(w, http.StatusServiceUnavailable, "session storage unavailable")
				return
			}

			defer workspaces.Release(ws)

			next.ServeHTTP(w, r.WithContext(session.NewContext(ctx, ws)))
		})
	}
}

// RequireAuth lets only visitors holding a token through; everyone else is
// sent to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, ok := session.FromContext(r.Context())
		if !ok || !ws.Auth.IsAuthenticated(r.Context()) {
			RespondWithRedirect(w, http.StatusUnauthorized, "Please login to continue", LoginPath, 0)
			return
		}
		next.ServeHTTP(w, r)
	})
}
