package user

import (
	"context"
	"net/http"

	"shopco-storefront/internal/api"
)

type Repository interface {
	SignUp(ctx context.Context, form SignUpForm) (*AuthResponse, error)
	SignIn(ctx context.Context, form SignInForm) (*AuthResponse, error)
}

type repository struct {
	client *api.Client
}

func NewRepository(client *api.Client) Repository {
	return &repository{client: client}
}

func (r *repository) SignUp(ctx context.Context, form SignUpForm) (*AuthResponse, error) {
	var res AuthResponse
	if err := r.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "auth/signup", Body: form}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) SignIn(ctx context.Context, form SignInForm) (*AuthResponse, error) {
	var res AuthResponse
	if err := r.client.Do(ctx, api.Request{Method: http.MethodPost, Path: "auth/signin", Body: form}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
