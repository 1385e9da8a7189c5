package wishlist

import (
	"slices"
	"strings"
)

const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
)

// Sort returns a sorted copy. "newest" (and "") keeps insertion order.
func Sort(items []Item, by string) ([]Item, error) {
	out := slices.Clone(items)
	switch by {
	case "", SortNewest:
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Item) int {
			return a.EffectivePrice().Cmp(b.EffectivePrice())
		})
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Item) int {
			return b.EffectivePrice().Cmp(a.EffectivePrice())
		})
	case SortName:
		slices.SortStableFunc(out, func(a, b Item) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		return nil, ErrUnknownSort
	}
	return out, nil
}
