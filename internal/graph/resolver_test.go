package graph

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"shopco-storefront/internal/api"
	"shopco-storefront/internal/graph/model"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// --- Mocks ---

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Home(ctx context.Context, ms product.Membership) (*product.Home, error) {
	args := m.Called(ctx, ms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Home), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, ms product.Membership) ([]product.Product, error) {
	args := m.Called(ctx, ms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) Detail(ctx context.Context, id string, ms product.Membership) (*product.Detail, error) {
	args := m.Called(ctx, id, ms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Detail), args.Error(1)
}

func (m *MockProductService) Get(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Categories(ctx context.Context) ([]product.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Category), args.Error(1)
}

func code(t *testing.T, err error) any {
	t.Helper()
	var gerr *gqlerror.Error
	require.True(t, errors.As(err, &gerr), "expected a graph error, got %v", err)
	return gerr.Extensions["code"]
}

// --- Tests ---

func TestQueryResolver_Products(t *testing.T) {
	t.Run("No workspace", func(t *testing.T) {
		r := &Resolver{ProductSvc: new(MockProductService)}

		_, err := r.Query().Products(context.Background(), nil)

		assert.Equal(t, codeInternal, code(t, err))
	})

	t.Run("Expired token", func(t *testing.T) {
		env := newTestEnv(t)
		ws := env.workspace(t)
		mockSvc := new(MockProductService)
		mockSvc.On("List", mock.Anything, ws).Return(nil, &api.Error{StatusCode: http.StatusUnauthorized})
		r := &Resolver{ProductSvc: mockSvc}

		_, err := r.Query().Products(session.NewContext(context.Background(), ws), nil)

		assert.Equal(t, codeUnauthenticated, code(t, err))
		mockSvc.AssertExpectations(t)
	})

	t.Run("Remote failure keeps the fallback message", func(t *testing.T) {
		env := newTestEnv(t)
		ws := env.workspace(t)
		mockSvc := new(MockProductService)
		mockSvc.On("List", mock.Anything, ws).Return(nil, errors.New("dial tcp: refused"))
		r := &Resolver{ProductSvc: mockSvc}

		_, err := r.Query().Products(session.NewContext(context.Background(), ws), nil)

		require.Error(t, err)
		assert.Equal(t, codeUpstream, code(t, err))
		assert.Contains(t, err.Error(), "Failed to load products. Please try again.")
	})

	t.Run("Page is clamped", func(t *testing.T) {
		env := newTestEnv(t)
		ws := env.workspace(t)
		mockSvc := new(MockProductService)
		mockSvc.On("List", mock.Anything, ws).Return([]product.Product{
			{ID: "p1", Price: decimal.NewFromInt(10)},
		}, nil)
		r := &Resolver{ProductSvc: mockSvc}
		page := 9

		res, err := r.Query().Products(session.NewContext(context.Background(), ws), &model.ShopFilter{Page: &page})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 1, res.Total)
	})
}

func TestShopFilter(t *testing.T) {
	neg := decimal.NewFromInt(-5)
	zero := 0
	search := "dress"

	f, err := shopFilter(nil)
	require.NoError(t, err)
	assert.Equal(t, product.Filter{}, f)

	f, err = shopFilter(&model.ShopFilter{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, "dress", f.Search)

	_, err = shopFilter(&model.ShopFilter{MaxPrice: &neg})
	assert.Equal(t, codeBadInput, code(t, err))

	_, err = shopFilter(&model.ShopFilter{Page: &zero})
	assert.Equal(t, codeBadInput, code(t, err))
}

func TestMutationResolver_AddToCart(t *testing.T) {
	t.Run("Missing product id never reaches the service", func(t *testing.T) {
		env := newTestEnv(t)
		mockSvc := new(MockProductService)
		r := &Resolver{ProductSvc: mockSvc}

		_, err := r.Mutation().AddToCart(session.NewContext(context.Background(), env.workspace(t)), model.AddToCartInput{})

		assert.Equal(t, codeBadInput, code(t, err))
		mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("Default quantity is one", func(t *testing.T) {
		env := newTestEnv(t)
		ws := env.workspace(t)
		mockSvc := new(MockProductService)
		mockSvc.On("Get", mock.Anything, "p1").Return(&product.Product{ID: "p1", Title: "Phone", Quantity: 5}, nil)
		r := &Resolver{ProductSvc: mockSvc}

		res, err := r.Mutation().AddToCart(session.NewContext(context.Background(), ws), model.AddToCartInput{ProductID: "p1"})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Count)
		assert.Equal(t, "Phone added to cart!", res.Message)
	})
}

func TestAuthDirective(t *testing.T) {
	next := func(ctx context.Context) (any, error) { return "ok", nil }

	t.Run("No workspace", func(t *testing.T) {
		_, err := AuthDirective(context.Background(), nil, next)
		assert.Equal(t, codeUnauthenticated, code(t, err))
	})

	t.Run("Anonymous visitor", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := session.NewContext(context.Background(), env.workspace(t))

		res, err := AuthDirective(ctx, nil, next)

		assert.Nil(t, res)
		var gerr *gqlerror.Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, "Please login to continue", gerr.Message)
		assert.Equal(t, "/auth/login", gerr.Extensions["redirect"])
	})

	t.Run("Logged in", func(t *testing.T) {
		env := newTestEnv(t)
		env.login(t)
		ctx := session.NewContext(context.Background(), env.workspace(t))

		res, err := AuthDirective(ctx, nil, next)

		require.NoError(t, err)
		assert.Equal(t, "ok", res)
	})
}

func TestObject_MarshalJSON(t *testing.T) {
	raw, err := object{
		{key: "b", value: 1},
		{key: "a", value: object{{key: "z", value: nil}}},
	}.MarshalJSON()

	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"z":null}}`, string(raw))
}
