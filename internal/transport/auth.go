package transport

import (
	"errors"
	"net/http"

	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/middleware"
	"shopco-storefront/internal/session"
	"shopco-storefront/internal/user"

	"go.uber.org/zap"
)

const homePath = "/home"

type loginPageResponse struct {
	RememberedEmail string `json:"rememberedEmail"`
	RememberMe      bool   `json:"rememberMe"`
	LoggedIn        bool   `json:"loggedIn"`
}

type signInRequest struct {
	user.SignInForm
	RememberMe bool `json:"rememberMe"`
}

// LoginPage prefills the email the visitor asked to be remembered.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	email := ws.Account.RememberedEmail(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, loginPageResponse{
		RememberedEmail: email,
		RememberMe:      email != "",
		LoggedIn:        ws.Auth.IsAuthenticated(r.Context()),
	})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var req signInRequest
	if !decode(w, r, &req) {
		return
	}

	profile, err := ws.Account.SignIn(r.Context(), req.SignInForm, req.RememberMe)
	if err != nil {
		logger.FromCtx(r.Context()).Debug("sign in failed",
			zap.String("layer", "transport"),
			zap.Error(err),
		)
		middleware.RespondWithError(w, authErrorStatus(err, http.StatusUnauthorized), user.UserMessage(err))
		return
	}

	// The remote cart may already hold items from another device.
	ws.Cart.RefreshFromRemote(r.Context())

	middleware.RespondWithJSON(w, http.StatusOK, ActionResponse{
		Redirect: homePath,
		Data:     profile,
	})
}

// SignUp registers the visitor and sends them to the login page.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var form user.SignUpForm
	if !decode(w, r, &form) {
		return
	}

	profile, err := ws.Account.SignUp(r.Context(), form)
	if err != nil {
		logger.FromCtx(r.Context()).Debug("sign up failed",
			zap.String("layer", "transport"),
			zap.Error(err),
		)
		middleware.RespondWithError(w, authErrorStatus(err, http.StatusBadRequest), user.UserMessage(err))
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, ActionResponse{
		Redirect: middleware.LoginPath,
		Data:     profile,
	})
}

// Logout forgets the token, the cached profile and the remote cart id. The
// cart lines and wishlist stay.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	if err := ws.Account.Logout(r.Context()); err != nil {
		logger.FromCtx(r.Context()).Error("logout failed",
			zap.String("layer", "transport"),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "Logout failed. Please try again.")
		return
	}
	ws.Orders.Clear()
	if err := ws.Cart.ForgetCartID(r.Context()); err != nil {
		// The next sign in overwrites it when the remote cart is reachable.
		logger.FromCtx(r.Context()).Warn("failed to forget remote cart id",
			zap.String("layer", "transport"),
			zap.Error(err),
		)
	}

	middleware.RespondWithJSON(w, http.StatusOK, ActionResponse{Redirect: middleware.LoginPath})
}

// authErrorStatus is rejected for anything the remote refused and 500 when
// the session could not be saved locally.
func authErrorStatus(err error, rejected int) int {
	if errors.Is(err, user.ErrFailedSaveProfile) {
		return http.StatusInternalServerError
	}
	return rejected
}
