package cart

import (
	"context"
	"fmt"
	"strings"

	"shopco-storefront/internal/storage"

	"github.com/shopspring/decimal"
)

var (
	FreeDeliveryThreshold = decimal.NewFromInt(100)
	DeliveryBaseFee       = decimal.NewFromInt(15)
	TaxRate               = decimal.NewFromFloat(0.1)

	hundred = decimal.NewFromInt(100)
)

var promoCodes = map[string]decimal.Decimal{
	"SAVE10":  decimal.NewFromInt(10),
	"SAVE20":  decimal.NewFromInt(20),
	"WELCOME": decimal.NewFromInt(15),
}

// Promo is an applied promo code and the flat amount it takes off.
type Promo struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// LookupPromo matches code case-insensitively after trimming.
func LookupPromo(code string) (Promo, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	amount, ok := promoCodes[code]
	if !ok {
		return Promo{}, false
	}
	return Promo{Code: code, Discount: amount}, true
}

// Summary is the cart page price breakdown.
type Summary struct {
	Subtotal                 decimal.Decimal `json:"subtotal"`
	Discount                 decimal.Decimal `json:"discount"`
	Total                    decimal.Decimal `json:"total"`
	DeliveryFee              decimal.Decimal `json:"deliveryFee"`
	Tax                      decimal.Decimal `json:"tax"`
	PromoCode                string          `json:"promoCode,omitempty"`
	PromoDiscount            decimal.Decimal `json:"promoDiscount"`
	GrandTotal               decimal.Decimal `json:"grandTotal"`
	RemainingForFreeDelivery decimal.Decimal `json:"remainingForFreeDelivery"`
	FreeDeliveryProgress     decimal.Decimal `json:"freeDeliveryProgress"`
}

func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.SelectedQuantity))))
	}
	return sum
}

func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Summarize prices the cart. Delivery is free from the threshold up, tax is
// charged on goods plus delivery, and the promo comes off last. An empty cart
// costs nothing.
func Summarize(items []Item, promo *Promo) Summary {
	subtotal := Subtotal(items)
	total := Total(items)

	sum := Summary{
		Subtotal:                 subtotal,
		Discount:                 subtotal.Sub(total),
		Total:                    total,
		DeliveryFee:              decimal.Zero,
		Tax:                      decimal.Zero,
		PromoDiscount:            decimal.Zero,
		GrandTotal:               decimal.Zero,
		RemainingForFreeDelivery: decimal.Max(FreeDeliveryThreshold.Sub(total), decimal.Zero),
		FreeDeliveryProgress:     decimal.Min(total.Div(FreeDeliveryThreshold).Mul(hundred), hundred),
	}
	if promo != nil {
		sum.PromoCode = promo.Code
		sum.PromoDiscount = promo.Discount
	}
	if len(items) == 0 {
		return sum
	}

	if total.LessThan(FreeDeliveryThreshold) {
		sum.DeliveryFee = DeliveryBaseFee
	}
	sum.Tax = total.Add(sum.DeliveryFee).Mul(TaxRate).Round(2)
	sum.GrandTotal = decimal.Max(total.Add(sum.DeliveryFee).Add(sum.Tax).Sub(sum.PromoDiscount), decimal.Zero)
	return sum
}

// ApplyPromo remembers a valid promo code for this cart.
func (s *Store) ApplyPromo(ctx context.Context, code string) (Promo, error) {
	promo, ok := LookupPromo(code)
	if !ok {
		return Promo{}, ErrInvalidPromo
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set(ctx, storage.KeyAppliedPromo, promo); err != nil {
		return Promo{}, fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	s.promo = &promo
	return promo, nil
}

func (s *Store) RemovePromo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Remove(ctx, storage.KeyAppliedPromo); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	s.promo = nil
	return nil
}

func (s *Store) Promo() *Promo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promo == nil {
		return nil
	}
	p := *s.promo
	return &p
}

// Summary prices the current cart with the applied promo.
func (s *Store) Summary() Summary {
	return Summarize(s.Items(), s.Promo())
}
