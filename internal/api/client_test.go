package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(t *testing.T, rt http.RoundTripper) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:    "https://shop.test/api/v1/",
		HTTPClient: &http.Client{Transport: rt},
	})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "  "})
	assert.ErrorIs(t, err, ErrMissingBaseURL)

	c, err := NewClient(Config{BaseURL: "https://shop.test/api/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.test/api/v1", c.baseURL)
	assert.Zero(t, c.httpClient.Timeout)
}

func TestClient_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("Success with token and body", func(t *testing.T) {
		c := newTestClient(t, MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, http.MethodPost, req.Method)
			assert.Equal(t, "https://shop.test/api/v1/cart", req.URL.String())
			assert.Equal(t, "tok-1", req.Header.Get("token"))
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

			body, _ := io.ReadAll(req.Body)
			assert.JSONEq(t, `{"productId":"p1"}`, string(body))

			return jsonResponse(http.StatusOK, `{"status":"success","numOfCartItems":1}`)
		}))

		var out struct {
			Status string `json:"status"`
			Count  int    `json:"numOfCartItems"`
		}
		err := c.Do(ctx, Request{
			Method: http.MethodPost,
			Path:   "cart",
			Token:  "tok-1",
			Body:   map[string]string{"productId": "p1"},
		}, &out)

		require.NoError(t, err)
		assert.Equal(t, "success", out.Status)
		assert.Equal(t, 1, out.Count)
	})

	t.Run("Query and anonymous", func(t *testing.T) {
		c := newTestClient(t, MockRoundTripper(func(req *http.Request) *http.Response {
			assert.Equal(t, "-sold", req.URL.Query().Get("sort"))
			assert.Empty(t, req.Header.Get("token"))
			return jsonResponse(http.StatusOK, `{}`)
		}))

		err := c.Do(ctx, Request{
			Method: http.MethodGet,
			Path:   "/products",
			Query:  url.Values{"sort": {"-sold"}},
		}, nil)
		assert.NoError(t, err)
	})

	t.Run("Remote error with message", func(t *testing.T) {
		c := newTestClient(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusUnauthorized, `{"statusMsg":"fail","message":"Invalid Token. please login again"}`)
		}))

		err := c.Do(ctx, Request{Method: http.MethodGet, Path: "cart", Token: "old"}, nil)

		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
		assert.False(t, IsNotFound(err))
		assert.Equal(t, "Invalid Token. please login again", Message(err, "fallback"))
	})

	t.Run("Remote error without JSON", func(t *testing.T) {
		c := newTestClient(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusNotFound, `<html>nope</html>`)
		}))

		err := c.Do(ctx, Request{Method: http.MethodGet, Path: "orders/user/u1"}, nil)

		assert.True(t, IsNotFound(err))
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "Not Found", apiErr.Message)
	})

	t.Run("Transport failure", func(t *testing.T) {
		c := newTestClient(t, MockRoundTripperWithError(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("dial tcp: refused")
		}))

		err := c.Do(ctx, Request{Method: http.MethodGet, Path: "categories"}, nil)

		assert.ErrorContains(t, err, "refused")
		assert.False(t, IsUnauthorized(err))
		assert.Equal(t, "fallback", Message(err, "fallback"))
	})

	t.Run("Bad JSON", func(t *testing.T) {
		c := newTestClient(t, MockRoundTripper(func(req *http.Request) *http.Response {
			return jsonResponse(http.StatusOK, `{broken`)
		}))

		var out map[string]any
		err := c.Do(ctx, Request{Method: http.MethodGet, Path: "categories"}, &out)
		assert.ErrorContains(t, err, "decode response")
	})
}
