package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"shopco-storefront/internal/api"
	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/broadcast"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/metrics"
	"shopco-storefront/internal/product"
	"shopco-storefront/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the visitor's cart. Local state is authoritative; the remote cart
// is kept in step on a best-effort basis when the visitor is logged in.
type Store struct {
	mu      sync.Mutex
	kv      storage.Store
	session auth.Session
	remote  Repository

	items  []Item
	cartID string
	promo  *Promo

	// gen is bumped by ClearCart; remote ids learned under an older gen are dropped.
	gen uint64

	itemsSubj *broadcast.Subject[[]Item]
	countSubj *broadcast.Subject[int]
	idSubj    *broadcast.Subject[string]

	syncs sync.WaitGroup
}

// NewStore rehydrates the cart, its remote id and the applied promo from kv.
func NewStore(ctx context.Context, kv storage.Store, session auth.Session, remote Repository) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "NewStore"),
	)

	s := &Store{kv: kv, session: session, remote: remote, items: []Item{}}

	if err := load(ctx, kv, storage.KeyCart, &s.items); err != nil {
		return nil, err
	}
	if s.items == nil {
		s.items = []Item{}
	}
	if err := load(ctx, kv, storage.KeyCartID, &s.cartID); err != nil {
		return nil, err
	}
	if err := load(ctx, kv, storage.KeyAppliedPromo, &s.promo); err != nil {
		return nil, err
	}

	s.itemsSubj = broadcast.NewSubject(slices.Clone(s.items))
	s.countSubj = broadcast.NewSubject(count(s.items))
	s.idSubj = broadcast.NewSubject(s.cartID)

	log.Debug("cart rehydrated", zap.Int("lines", len(s.items)), zap.Bool("has_cart_id", s.cartID != ""))
	return s, nil
}

// load treats an unreadable value as absent so one bad blob cannot lock the visitor out.
func load(ctx context.Context, kv storage.Store, key string, dest any) error {
	_, err := kv.Get(ctx, key, dest)
	if errors.Is(err, storage.ErrCorruptValue) {
		logger.FromCtx(ctx).Warn("discarding corrupt stored value",
			zap.String("layer", "cart"),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	return nil
}

// AddToCart merges qty into the (id, size, color) line or appends a new one.
// A total above the stock ceiling is rejected with ErrMaxQuantityReached and
// nothing changes.
func (s *Store) AddToCart(ctx context.Context, p product.Product, qty int, size, color string) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	items := slices.Clone(s.items)
	key := Key{ID: p.ID, Size: size, Color: color}

	if idx := indexOf(items, key); idx >= 0 {
		next := items[idx].SelectedQuantity + qty
		if next > p.Quantity {
			s.mu.Unlock()
			return ErrMaxQuantityReached
		}
		items[idx].SelectedQuantity = next
	} else {
		if qty > p.Quantity {
			s.mu.Unlock()
			return ErrMaxQuantityReached
		}
		items = append(items, newItem(p, qty, size, color))
	}

	err := s.commitLocked(ctx, items)
	gen := s.gen
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.syncAdd(ctx, p.ID, gen)
	return nil
}

// syncAdd mirrors an add to the remote cart in the background. Failures are
// logged and counted only.
func (s *Store) syncAdd(ctx context.Context, productID string, gen uint64) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "syncAdd"),
		zap.String("product_id", productID),
	)

	token := s.session.Token(ctx)
	if token == "" {
		log.Debug("not logged in, cart kept locally only")
		return
	}
	if productID == "" {
		log.Error("product id is missing, skipping remote sync")
		return
	}

	bg := context.WithoutCancel(ctx)
	s.syncs.Add(1)
	go func() {
		defer s.syncs.Done()

		res, err := s.remote.AddItem(bg, token, productID)
		if err != nil {
			metrics.CartSyncFailures.Inc()
			if api.IsUnauthorized(err) {
				log.Warn("remote cart sync rejected, token expired", zap.Error(err))
				return
			}
			log.Error("remote cart sync failed", zap.Error(err))
			return
		}
		if res.Data.ID != "" {
			if err := s.saveCartID(bg, res.Data.ID, gen); err != nil {
				log.Error("failed to save remote cart id", zap.Error(err))
			}
		}
	}()
}

// UpdateQuantity sets the line's quantity; qty <= 0 removes the line. A missing
// line is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id, size, color string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := slices.Clone(s.items)
	idx := indexOf(items, Key{ID: id, Size: size, Color: color})
	if idx < 0 {
		return nil
	}

	switch {
	case qty <= 0:
		items = slices.Delete(items, idx, idx+1)
	case qty > items[idx].Quantity:
		return ErrQuantityExceedsStock
	default:
		items[idx].SelectedQuantity = qty
	}
	return s.commitLocked(ctx, items)
}

func (s *Store) RemoveFromCart(ctx context.Context, id, size, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := Key{ID: id, Size: size, Color: color}
	items := slices.DeleteFunc(slices.Clone(s.items), func(it Item) bool {
		return it.Key() == key
	})
	return s.commitLocked(ctx, items)
}

// ClearCart empties the cart and forgets the remote cart id, including one a
// pending remote sync would learn later.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commitLocked(ctx, []Item{}); err != nil {
		return err
	}
	return s.forgetCartIDLocked(ctx)
}

// ForgetCartID drops the remote cart id but keeps the items. The next
// logged-in visitor learns their own id again.
func (s *Store) ForgetCartID(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forgetCartIDLocked(ctx)
}

func (s *Store) forgetCartIDLocked(ctx context.Context) error {
	s.gen++
	if err := s.kv.Remove(ctx, storage.KeyCartID); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	s.cartID = ""
	s.idSubj.Next("")
	return nil
}

// commitLocked persists items, then swaps them in and publishes. Callers hold s.mu.
func (s *Store) commitLocked(ctx context.Context, items []Item) error {
	if err := s.kv.Set(ctx, storage.KeyCart, items); err != nil {
		logger.FromCtx(ctx).Error("failed to persist cart",
			zap.String("layer", "cart"),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	s.items = items
	s.itemsSubj.Next(slices.Clone(items))
	s.countSubj.Next(count(items))
	return nil
}

func (s *Store) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// saveCartID records id unless the cart was cleared after gen was taken.
func (s *Store) saveCartID(ctx context.Context, id string, gen uint64) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		logger.FromCtx(ctx).Debug("dropping remote cart id learned before the cart was cleared",
			zap.String("layer", "cart"),
			zap.String("cart_id", id),
		)
		return nil
	}

	if err := s.kv.Set(ctx, storage.KeyCartID, id); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	s.cartID = id
	s.idSubj.Next(id)
	return nil
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Count is the sum of selected quantities.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.items)
}

func (s *Store) IsInCart(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.items, func(it Item) bool { return it.ID == productID })
}

// Subtotal sums undiscounted prices.
func (s *Store) Subtotal() decimal.Decimal {
	return Subtotal(s.Items())
}

// Total sums effective prices.
func (s *Store) Total() decimal.Decimal {
	return Total(s.Items())
}

func (s *Store) Discount() decimal.Decimal {
	items := s.Items()
	return Subtotal(items).Sub(Total(items))
}

func (s *Store) CartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID
}

// EnsureCartID returns the known remote cart id, fetching the remote cart once
// when none is cached. Anonymous visitors get "" and no error.
func (s *Store) EnsureCartID(ctx context.Context) (string, error) {
	if id := s.CartID(); id != "" {
		return id, nil
	}
	gen := s.generation()

	token := s.session.Token(ctx)
	if token == "" {
		return "", nil
	}

	res, err := s.remote.GetCart(ctx, token)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get remote cart id",
			zap.String("layer", "cart"),
			zap.String("method", "EnsureCartID"),
			zap.Error(err),
		)
		return "", err
	}
	if err := s.saveCartID(ctx, res.Data.ID, gen); err != nil {
		return "", err
	}
	return res.Data.ID, nil
}

// RefreshFromRemote learns the remote cart id when the visitor is logged in.
// Errors are logged and dropped.
func (s *Store) RefreshFromRemote(ctx context.Context) {
	token := s.session.Token(ctx)
	if token == "" {
		return
	}
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "cart"),
		zap.String("method", "RefreshFromRemote"),
	)
	gen := s.generation()

	res, err := s.remote.GetCart(ctx, token)
	if err != nil {
		log.Warn("failed to fetch remote cart", zap.Error(err))
		return
	}
	if err := s.saveCartID(ctx, res.Data.ID, gen); err != nil {
		log.Error("failed to save remote cart id", zap.Error(err))
	}
}

// Wait blocks until background remote syncs have finished.
func (s *Store) Wait() {
	s.syncs.Wait()
}

func (s *Store) SubscribeItems() *broadcast.Subscription[[]Item] {
	return s.itemsSubj.Subscribe()
}

func (s *Store) SubscribeCount() *broadcast.Subscription[int] {
	return s.countSubj.Subscribe()
}

func (s *Store) SubscribeCartID() *broadcast.Subscription[string] {
	return s.idSubj.Subscribe()
}

// Close waits for pending syncs and ends every subscription.
func (s *Store) Close() {
	s.Wait()
	s.itemsSubj.Close()
	s.countSubj.Close()
	s.idSubj.Close()
}

func indexOf(items []Item, key Key) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.Key() == key })
}

func count(items []Item) int {
	n := 0
	for _, it := range items {
		n += it.SelectedQuantity
	}
	return n
}
