package product

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func catalog() []Product {
	mk := func(id, title, cat, brand string, price int64) Product {
		return Product{
			ID: id, Title: title, Price: decimal.NewFromInt(price),
			Category: Ref{Name: cat}, Brand: Ref{Name: brand},
		}
	}
	discounted := decimal.NewFromInt(40)
	jacket := mk("4", "Denim Jacket", "Men's Fashion", "Levis", 90)
	jacket.PriceAfterDiscount = &discounted

	return []Product{
		mk("1", "Summer Dress", "Women's Fashion", "Zara", 60),
		mk("2", "Headphones", "Electronics", "Sony", 300),
		mk("3", "Smart Watch", "Electronics", "Apple", 450),
		jacket,
	}
}

func TestShop_Filters(t *testing.T) {
	max50 := decimal.NewFromInt(50)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{Category: AllOption, Brand: AllOption}, []string{"1", "2", "3", "4"}},
		{"search title", Filter{Search: "watch"}, []string{"3"}},
		{"search category", Filter{Search: "ELECTRO"}, []string{"2", "3"}},
		{"category", Filter{Category: "Electronics"}, []string{"2", "3"}},
		{"brand", Filter{Brand: "Sony"}, []string{"2"}},
		{"effective price", Filter{MaxPrice: &max50}, []string{"4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Shop(catalog(), tt.filter)
			var ids []string
			for _, p := range page.Items {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), page.Total)
		})
	}
}

func TestShop_Pagination(t *testing.T) {
	var products []Product
	for i := 0; i < 30; i++ {
		products = append(products, Product{ID: fmt.Sprint(i), Price: decimal.NewFromInt(int64(i + 1))})
	}

	page := Shop(products, Filter{})
	assert.Len(t, page.Items, 12)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)

	page = Shop(products, Filter{Page: 3})
	assert.Len(t, page.Items, 6)
	assert.Equal(t, "24", page.Items[0].ID)

	page = Shop(products, Filter{Page: 99})
	assert.Equal(t, 3, page.Page)

	page = Shop(nil, Filter{Page: 2})
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.TotalPages)
}

func TestShop_BrandsAndPrices(t *testing.T) {
	page := Shop(catalog(), Filter{Category: "Electronics"})
	assert.Equal(t, []string{"Apple", "Sony"}, page.Brands)

	page = Shop(catalog(), Filter{Search: "no such thing"})
	assert.Equal(t, []string{"Apple", "Levis", "Sony", "Zara"}, page.Brands)

	assert.True(t, page.MinPrice.Equal(decimal.NewFromInt(40)))
	assert.True(t, page.MaxPrice.Equal(decimal.NewFromInt(450)))
}
