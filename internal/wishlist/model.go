package wishlist

import (
	"shopco-storefront/internal/product"

	"github.com/shopspring/decimal"
)

type Item struct {
	ID                 string           `json:"_id"`
	Title              string           `json:"title"`
	Price              decimal.Decimal  `json:"price"`
	PriceAfterDiscount *decimal.Decimal `json:"priceAfterDiscount,omitempty"`
	ImageCover         string           `json:"imageCover"`
	Category           product.Ref      `json:"category"`
	Brand              *product.Ref     `json:"brand,omitempty"`
	RatingsAverage     float64          `json:"ratingsAverage"`
	RatingsQuantity    int              `json:"ratingsQuantity"`
	Quantity           int              `json:"quantity"`
	InWishlist         bool             `json:"inWishlist"`
}

func (i Item) EffectivePrice() decimal.Decimal {
	if i.PriceAfterDiscount != nil {
		return *i.PriceAfterDiscount
	}
	return i.Price
}

// Product rebuilds the catalog view of the item, e.g. to move it into the cart.
func (i Item) Product() product.Product {
	p := product.Product{
		ID:                 i.ID,
		Title:              i.Title,
		Price:              i.Price,
		PriceAfterDiscount: i.PriceAfterDiscount,
		ImageCover:         i.ImageCover,
		Category:           i.Category,
		RatingsAverage:     i.RatingsAverage,
		RatingsQuantity:    i.RatingsQuantity,
		Quantity:           i.Quantity,
		InWishlist:         true,
	}
	if i.Brand != nil {
		p.Brand = *i.Brand
	}
	return p
}

func fromProduct(p product.Product) Item {
	item := Item{
		ID:                 p.ID,
		Title:              p.Title,
		Price:              p.Price,
		PriceAfterDiscount: p.PriceAfterDiscount,
		ImageCover:         p.ImageCover,
		Category:           p.Category,
		RatingsAverage:     p.RatingsAverage,
		RatingsQuantity:    p.RatingsQuantity,
		Quantity:           p.Quantity,
		InWishlist:         true,
	}
	if p.Brand.ID != "" || p.Brand.Name != "" {
		brand := p.Brand
		item.Brand = &brand
	}
	return item
}

// Totals is the wishlist page footer.
type Totals struct {
	Value   decimal.Decimal `json:"totalValue"`
	Savings decimal.Decimal `json:"totalSavings"`
}

func Summarize(items []Item) Totals {
	t := Totals{Value: decimal.Zero, Savings: decimal.Zero}
	for _, it := range items {
		t.Value = t.Value.Add(it.EffectivePrice())
		if it.PriceAfterDiscount != nil {
			t.Savings = t.Savings.Add(it.Price.Sub(*it.PriceAfterDiscount))
		}
	}
	return t
}
