package wishlist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"shopco-storefront/internal/broadcast"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/storage"

	"go.uber.org/zap"
)

// Store is the visitor's wishlist; membership is per product id.
type Store struct {
	mu    sync.Mutex
	kv    storage.Store
	items []Item

	itemsSubj *broadcast.Subject[[]Item]
	countSubj *broadcast.Subject[int]
}

func NewStore(ctx context.Context, kv storage.Store) (*Store, error) {
	s := &Store{kv: kv}

	_, err := kv.Get(ctx, storage.KeyWishlist, &s.items)
	switch {
	case errors.Is(err, storage.ErrCorruptValue):
		logger.FromCtx(ctx).Warn("discarding corrupt wishlist",
			zap.String("layer", "wishlist"),
			zap.Error(err),
		)
		s.items = nil
	case err != nil:
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	if s.items == nil {
		s.items = []Item{}
	}

	s.itemsSubj = broadcast.NewSubject(slices.Clone(s.items))
	s.countSubj = broadcast.NewSubject(len(s.items))
	return s, nil
}

// AddToWishlist is a no-op when the product is already present.
func (s *Store) AddToWishlist(ctx context.Context, p product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(p.ID) >= 0 {
		return nil
	}
	return s.commitLocked(ctx, append(slices.Clone(s.items), fromProduct(p)))
}

func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

// ToggleWishlist flips membership and returns the new state.
func (s *Store) ToggleWishlist(ctx context.Context, p product.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(p.ID) >= 0 {
		return false, s.removeLocked(ctx, p.ID)
	}
	if err := s.commitLocked(ctx, append(slices.Clone(s.items), fromProduct(p))); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ClearWishlist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, []Item{})
}

func (s *Store) IsInWishlist(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(productID) >= 0
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) SubscribeItems() *broadcast.Subscription[[]Item] {
	return s.itemsSubj.Subscribe()
}

func (s *Store) SubscribeCount() *broadcast.Subscription[int] {
	return s.countSubj.Subscribe()
}

func (s *Store) Close() {
	s.itemsSubj.Close()
	s.countSubj.Close()
}

func (s *Store) removeLocked(ctx context.Context, productID string) error {
	items := slices.DeleteFunc(slices.Clone(s.items), func(it Item) bool {
		return it.ID == productID
	})
	return s.commitLocked(ctx, items)
}

func (s *Store) commitLocked(ctx context.Context, items []Item) error {
	if err := s.kv.Set(ctx, storage.KeyWishlist, items); err != nil {
		logger.FromCtx(ctx).Error("failed to persist wishlist",
			zap.String("layer", "wishlist"),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrFailedSaveWishlist, err)
	}
	s.items = items
	s.itemsSubj.Next(slices.Clone(items))
	s.countSubj.Next(len(items))
	return nil
}

func (s *Store) indexLocked(productID string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.ID == productID })
}
