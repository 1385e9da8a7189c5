package cart

import (
	"context"
	"errors"
	"testing"

	"shopco-storefront/internal/product"
	"shopco-storefront/internal/storage"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

// Repeated adds of one line sum up, and an add that would pass the stock
// ceiling leaves the quantity untouched.
func TestProperty_AddToCartClampsToStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("selected quantity is the clamped sum of adds", prop.ForAll(
		func(stock int, adds []int) bool {
			ctx := context.Background()
			s, err := NewStore(ctx, storage.NewMemoryStore(), fakeSession(""), new(MockRepository))
			if err != nil {
				return false
			}
			p := product.Product{ID: "p", Price: decimal.NewFromInt(5), Quantity: stock}

			want := 0
			for _, q := range adds {
				err := s.AddToCart(ctx, p, q, "M", "Black")
				if want+q > stock {
					if !errors.Is(err, ErrMaxQuantityReached) {
						return false
					}
					continue
				}
				if err != nil {
					return false
				}
				want += q
			}
			return s.Count() == want && want <= stock
		},
		gen.IntRange(1, 20),
		gen.SliceOf(gen.IntRange(1, 6)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_TotalIsSubtotalMinusDiscount(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total == subtotal - discount", prop.ForAll(
		func(prices []int, cuts []int) bool {
			var items []Item
			for i, price := range prices {
				it := line(int64(price), 0, i%4+1)
				if i < len(cuts) && cuts[i] < price {
					d := decimal.NewFromInt(int64(cuts[i]))
					it.PriceAfterDiscount = &d
				}
				items = append(items, it)
			}
			subtotal, total := Subtotal(items), Total(items)
			discount := subtotal.Sub(total)
			return total.Equal(subtotal.Sub(discount)) && !discount.IsNegative()
		},
		gen.SliceOf(gen.IntRange(1, 1000)),
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Whatever happened in memory is what a fresh store reads back.
func TestProperty_PersistedStateRoundTrips(t *testing.T) {
	properties := gopter.NewProperties(nil)
	sizes := []string{"", "S", "M"}

	properties.Property("reload yields the in-memory items", prop.ForAll(
		func(ops []int) bool {
			ctx := context.Background()
			kv := storage.NewMemoryStore()
			s, err := NewStore(ctx, kv, fakeSession(""), new(MockRepository))
			if err != nil {
				return false
			}

			for i, op := range ops {
				id := string(rune('a' + op%3))
				size := sizes[i%len(sizes)]
				p := product.Product{ID: id, Price: decimal.NewFromInt(int64(op + 1)), Quantity: 10}
				switch op % 4 {
				case 0, 1:
					_ = s.AddToCart(ctx, p, op%3+1, size, "")
				case 2:
					_ = s.UpdateQuantity(ctx, id, size, "", op%12)
				case 3:
					_ = s.RemoveFromCart(ctx, id, size, "")
				}

				reloaded, err := NewStore(ctx, kv, fakeSession(""), new(MockRepository))
				if err != nil {
					return false
				}
				if !sameItems(s.Items(), reloaded.Items()) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 40)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key() != b[i].Key() ||
			a[i].SelectedQuantity != b[i].SelectedQuantity ||
			!a[i].Price.Equal(b[i].Price) {
			return false
		}
	}
	return true
}
