package quoteview

import (
	"regexp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/models"
)

var digitsOnly = regexp.MustCompile(`^\d*$`)

// Selection is the list of articles picked for a quote that has not been
// submitted yet. Entries are unique by article and keep insertion order.
// The zero value is an empty selection.
type Selection struct {
	items []models.QuoteItem
}

func (s *Selection) index(productID uint) int {
	return slices.IndexFunc(s.items, func(it models.QuoteItem) bool { return it.ProductID == productID })
}

func (s *Selection) remove(i int) {
	s.items = slices.Delete(s.items, i, i+1)
}

// Increment adds one unit of the article, inserting it with quantity 1 if absent.
func (s *Selection) Increment(productID uint) {
	if i := s.index(productID); i >= 0 {
		s.items[i].Quantity++
		return
	}
	s.items = append(s.items, models.QuoteItem{ProductID: productID, Quantity: 1})
}

// Decrement removes one unit; the entry disappears once it would drop below 1.
// Decrementing an absent article does nothing.
func (s *Selection) Decrement(productID uint) {
	i := s.index(productID)
	if i < 0 {
		return
	}
	if s.items[i].Quantity-1 < 1 {
		s.remove(i)
		return
	}
	s.items[i].Quantity--
}

// SetQuantity applies typed input. Only digits (or nothing) are accepted;
// other input is ignored and false is returned. An empty or non-positive
// value removes the entry so half-typed numbers never block the form.
func (s *Selection) SetQuantity(productID uint, raw string) bool {
	if !digitsOnly.MatchString(raw) {
		return false
	}
	i := s.index(productID)
	n, err := strconv.Atoi(raw)
	if raw == "" || err != nil || n < 1 {
		if i >= 0 {
			s.remove(i)
		}
		return true
	}
	if i >= 0 {
		s.items[i].Quantity = n
		return true
	}
	s.items = append(s.items, models.QuoteItem{ProductID: productID, Quantity: n})
	return true
}

// Quantity returns the selected quantity of the article, or 0.
func (s *Selection) Quantity(productID uint) int {
	if i := s.index(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

// Items returns a copy of the selected entries.
func (s *Selection) Items() []models.QuoteItem {
	return slices.Clone(s.items)
}

// Len is the number of distinct selected articles.
func (s *Selection) Len() int { return len(s.items) }

// Empty reports whether nothing is selected.
func (s *Selection) Empty() bool { return len(s.items) == 0 }

// Clear drops every entry, typically after a successful submit.
func (s *Selection) Clear() { s.items = nil }

// Total previews the discounted total of the selection.
func (s *Selection) Total(products []models.Article, discount decimal.Decimal) decimal.Decimal {
	return ApplyDiscount(NewCatalog(products).LineTotal(s.items), discount)
}
