package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"shopco-storefront/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func newRepo(t *testing.T, status int, body string, check func(*http.Request)) Repository {
	t.Helper()
	client, err := api.NewClient(api.Config{
		BaseURL: "https://shop.test/api/v1/",
		HTTPClient: &http.Client{Transport: MockRoundTripper(func(req *http.Request) *http.Response {
			if check != nil {
				check(req)
			}
			return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body)), Header: make(http.Header)}
		})},
	})
	require.NoError(t, err)
	return NewRepository(client)
}

func TestRepository_SignIn(t *testing.T) {
	body := `{"message":"success","user":{"name":"Mona","email":"mona@example.com","role":"user"},"token":"tok"}`
	repo := newRepo(t, http.StatusOK, body, func(req *http.Request) {
		assert.Equal(t, "/api/v1/auth/signin", req.URL.Path)
		var sent SignInForm
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		assert.Equal(t, "mona@example.com", sent.Email)
		assert.Empty(t, req.Header.Get(api.TokenHeader))
	})

	res, err := repo.SignIn(context.Background(), SignInForm{Email: "mona@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "user", res.User.Role)
}

func TestRepository_SignUp(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := newRepo(t, http.StatusCreated, `{"message":"success","token":"tok"}`, func(req *http.Request) {
			assert.Equal(t, "/api/v1/auth/signup", req.URL.Path)
			var sent map[string]any
			require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
			assert.Equal(t, "secret1", sent["rePassword"])
		})
		_, err := repo.SignUp(context.Background(), validSignUp)
		assert.NoError(t, err)
	})

	t.Run("Conflict", func(t *testing.T) {
		repo := newRepo(t, http.StatusConflict, `{"statusMsg":"fail","message":"Account Already Exists"}`, nil)
		_, err := repo.SignUp(context.Background(), validSignUp)
		assert.Equal(t, "Account Already Exists", api.Message(err, ""))
	})
}
