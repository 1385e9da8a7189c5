package product

import "github.com/shopspring/decimal"

// Ref is the embedded category/brand reference carried by products.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Review struct {
	ID      string  `json:"_id"`
	Review  string  `json:"review"`
	Rating  float64 `json:"rating"`
	User    *Ref    `json:"user,omitempty"`
	Created string  `json:"createdAt,omitempty"`
}

type Product struct {
	ID                 string           `json:"_id"`
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Price              decimal.Decimal  `json:"price"`
	PriceAfterDiscount *decimal.Decimal `json:"priceAfterDiscount,omitempty"`
	ImageCover         string           `json:"imageCover"`
	Images             []string         `json:"images,omitempty"`
	Category           Ref              `json:"category"`
	Brand              Ref              `json:"brand"`
	RatingsAverage     float64          `json:"ratingsAverage"`
	RatingsQuantity    int              `json:"ratingsQuantity"`
	Sold               int              `json:"sold"`
	Quantity           int              `json:"quantity"`
	Reviews            []Review         `json:"reviews,omitempty"`

	InWishlist bool `json:"inWishlist"`
	InCart     bool `json:"inCart"`
}

// EffectivePrice is the discounted price when one is set, else the base price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.PriceAfterDiscount != nil {
		return *p.PriceAfterDiscount
	}
	return p.Price
}

// DiscountPercentage is the rounded percentage saved by the discount, or 0.
func (p Product) DiscountPercentage() int64 {
	if p.PriceAfterDiscount == nil || !p.Price.IsPositive() {
		return 0
	}
	return p.Price.Sub(*p.PriceAfterDiscount).
		Div(p.Price).
		Mul(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// AllImages returns the cover followed by the gallery.
func (p Product) AllImages() []string {
	return append([]string{p.ImageCover}, p.Images...)
}

type Category struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image,omitempty"`
}

// Metadata is the pagination block of a product list response.
type Metadata struct {
	CurrentPage   int `json:"currentPage"`
	NumberOfPages int `json:"numberOfPages"`
	Limit         int `json:"limit"`
}

type ListResult struct {
	Results  int       `json:"results"`
	Metadata Metadata  `json:"metadata"`
	Data     []Product `json:"data"`
}

// Query maps onto the remote products endpoint parameters.
type Query struct {
	Sort        string
	Limit       int
	Page        int
	CategoryIDs []string
}

// Option is a selectable size or colour on the product page.
type Option struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

var Sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

var Colors = []Option{
	{Name: "Black", Value: "#000000"},
	{Name: "White", Value: "#FFFFFF"},
	{Name: "Navy", Value: "#1E3A8A"},
	{Name: "Gray", Value: "#6B7280"},
	{Name: "Beige", Value: "#D4C5B9"},
}

const (
	DefaultSize  = "M"
	DefaultColor = "Black"
)

// Home is the landing page payload.
type Home struct {
	NewArrivals []Product  `json:"newArrivals"`
	TopSelling  []Product  `json:"topSelling"`
	Categories  []Category `json:"categories"`
}

// Detail is the product page payload.
type Detail struct {
	Product       Product   `json:"product"`
	Related       []Product `json:"related"`
	Sizes         []string  `json:"sizes"`
	Colors        []Option  `json:"colors"`
	SelectedSize  string    `json:"selectedSize"`
	SelectedColor string    `json:"selectedColor"`
	Images        []string  `json:"images"`
	Discount      int64     `json:"discountPercentage"`
}
