package address

import (
	"context"
	"errors"
	"testing"

	"shopco-storefront/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) List(ctx context.Context, token string) (*Response, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

func (m *MockRepository) Add(ctx context.Context, token string, addr Address) (*Response, error) {
	args := m.Called(ctx, token, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

func (m *MockRepository) Remove(ctx context.Context, token, id string) (*Response, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

type fakeSession string

func (f fakeSession) Token(context.Context) string         { return string(f) }
func (f fakeSession) IsAuthenticated(context.Context) bool { return f != "" }

var home = Address{Name: "Home", Details: "12 Nile Street", Phone: "01012345678", City: "Cairo"}

// --- Tests ---

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, fakeSession("tok"))
		saved := home
		saved.ID = "a1"
		mockRepo.On("List", ctx, "tok").Return(&Response{Status: "success", Data: []Address{saved}}, nil)

		res, err := svc.List(ctx)

		assert.NoError(t, err)
		assert.Equal(t, []Address{saved}, res)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, fakeSession(""))

		_, err := svc.List(ctx)

		assert.ErrorIs(t, err, ErrNotAuthenticated)
		mockRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("RemoteError", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, fakeSession("tok"))
		mockRepo.On("List", ctx, "tok").Return(nil, errors.New("boom"))

		_, err := svc.List(ctx)
		assert.EqualError(t, err, "boom")
	})
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Success trims input", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, fakeSession("tok"))
		in := home
		in.Name = "  Home "
		mockRepo.On("Add", ctx, "tok", home).Return(&Response{Data: []Address{home}}, nil)

		res, err := svc.Add(ctx, in)

		require.NoError(t, err)
		assert.Len(t, res, 1)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Invalid fields", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, fakeSession("tok"))

		_, err := svc.Add(ctx, Address{Name: "H", Details: "abc", Phone: "0123", City: "C"})

		msgs := err.(*validate.Error).Messages()
		assert.Equal(t, "Minimum 2 characters", msgs["name"])
		assert.Equal(t, "Minimum 5 characters", msgs["details"])
		assert.Equal(t, "Invalid Egyptian phone number (01XXXXXXXXX)", msgs["phone"])
		assert.Equal(t, "Minimum 2 characters", msgs["city"])
		mockRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewService(new(MockRepository), fakeSession(""))
		_, err := svc.Add(ctx, home)
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingID", func(t *testing.T) {
		svc := NewService(new(MockRepository), fakeSession("tok"))
		_, err := svc.Remove(ctx, " ")
		assert.ErrorIs(t, err, ErrMissingAddressID)
	})

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, fakeSession("tok"))
		mockRepo.On("Remove", ctx, "tok", "a1").Return(&Response{Data: []Address{}}, nil)

		res, err := svc.Remove(ctx, "a1")

		assert.NoError(t, err)
		assert.Empty(t, res)
		mockRepo.AssertExpectations(t)
	})
}
