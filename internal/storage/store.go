package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys persisted per visitor. Values are JSON.
const (
	KeyCart            = "cart"
	KeyCartID          = "cartId"
	KeyWishlist        = "wishlist"
	KeyRememberedEmail = "rememberedEmail"
	KeyUserInfo        = "user_info"
	KeyUserToken       = "userToken"
	KeyAppliedPromo    = "appliedPromo"
)

// Store is a string-keyed, JSON-valued key/value store.
//
// Get reports found=false with a nil error when the key is absent. Removing a
// missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// rawStore is what a backend has to provide; encoding lives in codec.
type rawStore interface {
	getRaw(ctx context.Context, key string) ([]byte, bool, error)
	setRaw(ctx context.Context, key string, value []byte) error
	removeRaw(ctx context.Context, key string) error
}

type codec struct {
	raw rawStore
}

func (c codec) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, ok, err := c.raw.getRaw(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return true, fmt.Errorf("%w: key %q: %v", ErrCorruptValue, key, err)
	}
	return true, nil
}

func (c codec) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrEncodeValue, key, err)
	}
	return c.raw.setRaw(ctx, key, data)
}

func (c codec) Remove(ctx context.Context, key string) error {
	return c.raw.removeRaw(ctx, key)
}

type namespaced struct {
	inner  Store
	prefix string
}

// Namespace returns a Store that prefixes every key with prefix.
func Namespace(s Store, prefix string) Store {
	return &namespaced{inner: s, prefix: prefix}
}

// SessionNamespace is the prefix holding all keys of one storefront session.
func SessionNamespace(sid string) string {
	return "session:" + sid + ":"
}

func (n *namespaced) Get(ctx context.Context, key string, dest any) (bool, error) {
	return n.inner.Get(ctx, n.prefix+key, dest)
}

func (n *namespaced) Set(ctx context.Context, key string, value any) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.prefix+key)
}
