package product

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultPerPage = 12
	AllOption      = "all"
)

// Filter is the shop page state. Empty or "all" Category/Brand match everything;
// a nil MaxPrice disables the price cap.
type Filter struct {
	Search   string
	Category string
	Brand    string
	MaxPrice *decimal.Decimal
	Page     int
	PerPage  int
}

type ShopPage struct {
	Items      []Product       `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Brands     []string        `json:"brands"`
	MinPrice   decimal.Decimal `json:"minPrice"`
	MaxPrice   decimal.Decimal `json:"maxPrice"`
}

// Shop filters, pages and summarises products for the shop listing.
func Shop(products []Product, f Filter) ShopPage {
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			filtered = append(filtered, p)
		}
	}

	totalPages := (len(filtered) + perPage - 1) / perPage
	page := f.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	brandSource := filtered
	if len(brandSource) == 0 {
		brandSource = products
	}

	minPrice, maxPrice := PriceRange(products)
	return ShopPage{
		Items:      filtered[start:end],
		Total:      len(filtered),
		Page:       page,
		TotalPages: totalPages,
		Brands:     Brands(brandSource),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
	}
}

func (f Filter) matches(p Product) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Category.Name), term) {
			return false
		}
	}
	if f.Category != "" && f.Category != AllOption && p.Category.Name != f.Category {
		return false
	}
	if f.Brand != "" && f.Brand != AllOption && p.Brand.Name != f.Brand {
		return false
	}
	if f.MaxPrice != nil && p.EffectivePrice().GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// Brands returns the sorted distinct brand names.
func Brands(products []Product) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		if p.Brand.Name == "" {
			continue
		}
		if _, ok := seen[p.Brand.Name]; ok {
			continue
		}
		seen[p.Brand.Name] = struct{}{}
		out = append(out, p.Brand.Name)
	}
	sort.Strings(out)
	return out
}

// PriceRange is the floor of the lowest and the ceiling of the highest effective price.
func PriceRange(products []Product) (decimal.Decimal, decimal.Decimal) {
	if len(products) == 0 {
		return decimal.Zero, decimal.Zero
	}
	lo := products[0].EffectivePrice()
	hi := lo
	for _, p := range products[1:] {
		price := p.EffectivePrice()
		lo = decimal.Min(lo, price)
		hi = decimal.Max(hi, price)
	}
	return lo.Floor(), hi.Ceil()
}
