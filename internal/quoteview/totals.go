// Package quoteview computes quote totals and the filtered, sorted quote list
// shown to the user. Every function here is pure: no I/O and no mutation of
// its inputs. Lookups that miss (an unknown article, an unknown project) are
// treated as "exclude", never as an error.
package quoteview

import (
	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Catalog indexes article prices by id.
type Catalog map[uint]decimal.Decimal

// NewCatalog builds a price index. Later duplicates of an id win.
func NewCatalog(products []models.Article) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p.Price
	}
	return c
}

// Price returns the article price and whether the article is known.
func (c Catalog) Price(productID uint) (decimal.Decimal, bool) {
	p, ok := c[productID]
	return p, ok
}

// LineTotal sums price*quantity over the items, skipping unknown articles.
func (c Catalog) LineTotal(items []models.QuoteItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		price, ok := c.Price(it.ProductID)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// DiscountedTotal applies the percentage discount to the raw total.
// The discount is not clamped; range checks belong to the input form.
func (c Catalog) DiscountedTotal(q models.Quote) decimal.Decimal {
	return ApplyDiscount(c.LineTotal(q.Items), q.Discount)
}

// ApplyDiscount returns raw*(100-discount)/100.
func ApplyDiscount(raw, discount decimal.Decimal) decimal.Decimal {
	return raw.Mul(hundred.Sub(discount)).Div(hundred)
}

// ComputeLineTotal is the raw, undiscounted total of q against products.
func ComputeLineTotal(q models.Quote, products []models.Article) decimal.Decimal {
	return NewCatalog(products).LineTotal(q.Items)
}

// ComputeDiscountedTotal is the total shown to the user for q.
func ComputeDiscountedTotal(q models.Quote, products []models.Article) decimal.Decimal {
	return NewCatalog(products).DiscountedTotal(q)
}
