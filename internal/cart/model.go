package cart

import (
	"shopco-storefront/internal/product"

	"github.com/shopspring/decimal"
)

// Item is one cart line. Display fields are snapshotted when the line is created;
// Quantity is the stock ceiling, SelectedQuantity what the shopper wants.
type Item struct {
	ID                 string           `json:"_id"`
	Title              string           `json:"title"`
	Price              decimal.Decimal  `json:"price"`
	PriceAfterDiscount *decimal.Decimal `json:"priceAfterDiscount,omitempty"`
	ImageCover         string           `json:"imageCover"`
	Category           product.Ref      `json:"category"`
	Brand              *product.Ref     `json:"brand,omitempty"`
	Quantity           int              `json:"quantity"`
	SelectedQuantity   int              `json:"selectedQuantity"`
	SelectedSize       string           `json:"selectedSize,omitempty"`
	SelectedColor      string           `json:"selectedColor,omitempty"`
}

// Key identifies a line: the same product in another size or colour is another line.
type Key struct {
	ID    string
	Size  string
	Color string
}

func (i Item) Key() Key {
	return Key{ID: i.ID, Size: i.SelectedSize, Color: i.SelectedColor}
}

func (i Item) EffectivePrice() decimal.Decimal {
	if i.PriceAfterDiscount != nil {
		return *i.PriceAfterDiscount
	}
	return i.Price
}

// LineTotal is the effective price times the selected quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.SelectedQuantity)))
}

func newItem(p product.Product, qty int, size, color string) Item {
	item := Item{
		ID:                 p.ID,
		Title:              p.Title,
		Price:              p.Price,
		PriceAfterDiscount: p.PriceAfterDiscount,
		ImageCover:         p.ImageCover,
		Category:           p.Category,
		Quantity:           p.Quantity,
		SelectedQuantity:   qty,
		SelectedSize:       size,
		SelectedColor:      color,
	}
	if p.Brand.ID != "" || p.Brand.Name != "" {
		brand := p.Brand
		item.Brand = &brand
	}
	return item
}

// RemoteCart is the body of the remote cart endpoints.
type RemoteCart struct {
	Status         string `json:"status"`
	NumOfCartItems int    `json:"numOfCartItems"`
	Data           struct {
		ID             string          `json:"_id"`
		TotalCartPrice decimal.Decimal `json:"totalCartPrice"`
		User           string          `json:"user"`
	} `json:"data"`
}
