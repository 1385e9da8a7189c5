package session

import (
	"context"
	"testing"
	"time"

	"shopco-storefront/internal/cart"
	"shopco-storefront/internal/metrics"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/storage"
	"shopco-storefront/internal/wishlist"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Anonymous workspaces never reach the remote, so the repositories stay nil.
func anonDeps(kv storage.Store) Deps {
	return Deps{Store: kv, ReturnURL: "http://localhost:8080/orders"}
}

func prod(id string, stock int) product.Product {
	return product.Product{ID: id, Title: "Product " + id, Price: decimal.NewFromInt(50), Quantity: stock}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	t.Run("Rehydrates from the session namespace", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		seeded := []wishlist.Item{{ID: "p1", Title: "Phone", Price: decimal.NewFromInt(10)}}
		require.NoError(t, kv.Set(ctx, "session:abc:wishlist", seeded))

		ws, err := Build(ctx, "abc", anonDeps(kv))
		require.NoError(t, err)
		defer ws.Close()

		assert.Equal(t, "abc", ws.ID)
		assert.True(t, ws.IsInWishlist("p1"))
		assert.False(t, ws.IsInCart("p1"))
	})

	t.Run("Sessions do not share state", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		a, err := Build(ctx, "a", anonDeps(kv))
		require.NoError(t, err)
		defer a.Close()
		b, err := Build(ctx, "b", anonDeps(kv))
		require.NoError(t, err)
		defer b.Close()

		require.NoError(t, a.Cart.AddToCart(ctx, prod("p1", 3), 1, "", ""))
		require.NoError(t, a.Auth.SetToken(ctx, "tok"))

		assert.Equal(t, 1, a.Cart.Count())
		assert.Equal(t, 0, b.Cart.Count())
		assert.False(t, b.Auth.IsAuthenticated(ctx))
	})
}

func TestWorkspace_MoveToCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Moves one unit", func(t *testing.T) {
		ws, err := Build(ctx, "s1", anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)
		defer ws.Close()
		require.NoError(t, ws.Wishlist.AddToWishlist(ctx, prod("p1", 4)))

		item, err := ws.MoveToCart(ctx, "p1")

		require.NoError(t, err)
		assert.Equal(t, "Product p1", item.Title)
		assert.False(t, ws.IsInWishlist("p1"))
		assert.Equal(t, 1, ws.Cart.Count())
	})

	t.Run("Out of stock stays in wishlist", func(t *testing.T) {
		ws, err := Build(ctx, "s2", anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)
		defer ws.Close()
		require.NoError(t, ws.Wishlist.AddToWishlist(ctx, prod("p1", 0)))

		_, err = ws.MoveToCart(ctx, "p1")

		assert.ErrorIs(t, err, cart.ErrMaxQuantityReached)
		assert.True(t, ws.IsInWishlist("p1"))
	})

	t.Run("Unknown item", func(t *testing.T) {
		ws, err := Build(ctx, "s3", anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)
		defer ws.Close()

		_, err = ws.MoveToCart(ctx, "nope")
		assert.ErrorIs(t, err, wishlist.ErrItemNotFound)
	})
}

func TestWorkspace_MoveAllToCart(t *testing.T) {
	ctx := context.Background()
	ws, err := Build(ctx, "s1", anonDeps(storage.NewMemoryStore()))
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.Wishlist.AddToWishlist(ctx, prod("p1", 2)))
	require.NoError(t, ws.Wishlist.AddToWishlist(ctx, prod("p2", 0)))
	require.NoError(t, ws.Wishlist.AddToWishlist(ctx, prod("p3", 1)))

	moved, err := ws.MoveAllToCart(ctx)

	assert.Equal(t, 2, moved)
	assert.ErrorIs(t, err, cart.ErrMaxQuantityReached)
	assert.Equal(t, 1, ws.Wishlist.Count())
	assert.True(t, ws.IsInWishlist("p2"))
	assert.Equal(t, 2, ws.Cart.Count())
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("Caches per session id", func(t *testing.T) {
		r, err := NewRegistry(4, anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)
		defer r.Close()
		built := metrics.WorkspacesBuilt.Load()

		a1, err := r.Acquire(ctx, "a")
		require.NoError(t, err)
		r.Release(a1)
		a2, err := r.Acquire(ctx, "a")
		require.NoError(t, err)
		r.Release(a2)

		assert.Same(t, a1, a2)
		assert.Equal(t, built+1, metrics.WorkspacesBuilt.Load())
		assert.Equal(t, 1, r.Len())
	})

	t.Run("Empty id", func(t *testing.T) {
		r, err := NewRegistry(1, anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)
		defer r.Close()

		_, err = r.Acquire(ctx, "")
		assert.ErrorIs(t, err, ErrEmptySessionID)
	})

	t.Run("Evicted workspace is closed and rebuilt from storage", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		r, err := NewRegistry(1, anonDeps(kv))
		require.NoError(t, err)
		defer r.Close()

		a, err := r.Acquire(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, a.Cart.AddToCart(ctx, prod("p1", 5), 2, "", ""))
		sub := a.Cart.SubscribeCount()
		<-sub.C()
		r.Release(a)

		b, err := r.Acquire(ctx, "b")
		require.NoError(t, err)
		r.Release(b)

		select {
		case _, open := <-sub.C():
			assert.False(t, open)
		case <-time.After(time.Second):
			t.Fatal("evicted workspace was not closed")
		}

		again, err := r.Acquire(ctx, "a")
		require.NoError(t, err)
		defer r.Release(again)
		assert.NotSame(t, a, again)
		assert.Equal(t, 2, again.Cart.Count())
	})

	t.Run("Evicted workspace in use stays the only copy", func(t *testing.T) {
		kv := storage.NewMemoryStore()
		r, err := NewRegistry(1, anonDeps(kv))
		require.NoError(t, err)
		defer r.Close()

		held, err := r.Acquire(ctx, "a")
		require.NoError(t, err)

		b, err := r.Acquire(ctx, "b")
		require.NoError(t, err)
		r.Release(b)

		fresh, err := r.Acquire(ctx, "a")
		require.NoError(t, err)
		assert.Same(t, held, fresh)

		require.NoError(t, held.Cart.AddToCart(ctx, prod("p1", 5), 1, "", ""))
		require.NoError(t, fresh.Cart.AddToCart(ctx, prod("p2", 5), 1, "", ""))

		var lines []cart.Item
		_, err = kv.Get(ctx, "session:a:cart", &lines)
		require.NoError(t, err)
		assert.Len(t, lines, 2)

		r.Release(held)
		r.Release(fresh)

		again, err := r.Acquire(ctx, "a")
		require.NoError(t, err)
		defer r.Release(again)
		assert.Same(t, held, again, "workspace back in the cache stays open")
		assert.Equal(t, 2, again.Cart.Count())
	})

	t.Run("Pinned workspace closes on last release", func(t *testing.T) {
		r, err := NewRegistry(1, anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)
		defer r.Close()

		held, err := r.Acquire(ctx, "a")
		require.NoError(t, err)
		sub := held.Cart.SubscribeCount()
		<-sub.C()

		b, err := r.Acquire(ctx, "b")
		require.NoError(t, err)
		defer r.Release(b)

		require.NoError(t, held.Cart.AddToCart(ctx, prod("p1", 5), 1, "", ""))
		assert.Equal(t, 1, <-sub.C(), "held workspace keeps working after eviction")

		r.Release(held)
		select {
		case _, open := <-sub.C():
			assert.False(t, open)
		case <-time.After(time.Second):
			t.Fatal("released workspace was not closed")
		}
	})

	t.Run("Close waits for held workspaces", func(t *testing.T) {
		r, err := NewRegistry(2, anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)

		held, err := r.Acquire(ctx, "a")
		require.NoError(t, err)

		done := make(chan struct{})
		go func() {
			r.Close()
			close(done)
		}()

		select {
		case <-done:
			t.Fatal("Close returned while a workspace was held")
		case <-time.After(50 * time.Millisecond):
		}

		r.Release(held)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Close did not return after release")
		}
	})

	t.Run("Closed registry refuses new sessions", func(t *testing.T) {
		r, err := NewRegistry(2, anonDeps(storage.NewMemoryStore()))
		require.NoError(t, err)
		r.Close()

		_, err = r.Acquire(ctx, "a")
		assert.ErrorIs(t, err, ErrRegistryClosed)
	})

	t.Run("Invalid size", func(t *testing.T) {
		_, err := NewRegistry(0, anonDeps(storage.NewMemoryStore()))
		assert.Error(t, err)
	})
}
