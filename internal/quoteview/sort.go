package quoteview

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/models"
)

// Field is the sort key of the quote list.
type Field string

const (
	FieldCreatedAt   Field = "createdAt"
	FieldID          Field = "id"
	FieldTotalAmount Field = "totalAmount"
)

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Sort selects the key and direction of the quote list.
type Sort struct {
	Field Field
	Order Order
}

// DefaultSort lists the newest quotes first.
func DefaultSort() Sort {
	return Sort{Field: FieldCreatedAt, Order: Desc}
}

// ParseSort reads a field and an order, falling back to DefaultSort
// for unknown values.
func ParseSort(field, order string) Sort {
	s := DefaultSort()
	switch Field(strings.TrimSpace(field)) {
	case FieldCreatedAt:
		s.Field = FieldCreatedAt
	case FieldID:
		s.Field = FieldID
	case FieldTotalAmount:
		s.Field = FieldTotalAmount
	}
	switch Order(strings.ToLower(strings.TrimSpace(order))) {
	case Asc:
		s.Order = Asc
	case Desc:
		s.Order = Desc
	}
	return s
}

// SortQuotes returns a stably sorted copy of quotes. Quotes with equal keys
// keep their relative order in either direction.
func SortQuotes(quotes []models.Quote, products []models.Article, s Sort) []models.Quote {
	type keyed struct {
		q     models.Quote
		total decimal.Decimal
	}
	rows := make([]keyed, len(quotes))
	var catalog Catalog
	if s.Field == FieldTotalAmount {
		catalog = NewCatalog(products)
	}
	for i, q := range quotes {
		rows[i].q = q
		if catalog != nil {
			rows[i].total = catalog.DiscountedTotal(q)
		}
	}

	sign := 1
	if s.Order == Desc {
		sign = -1
	}
	slices.SortStableFunc(rows, func(a, b keyed) int {
		var c int
		switch s.Field {
		case FieldID:
			c = cmp.Compare(a.q.ID, b.q.ID)
		case FieldTotalAmount:
			c = a.total.Cmp(b.total)
		default:
			c = cmp.Compare(a.q.CreatedAt.UnixMilli(), b.q.CreatedAt.UnixMilli())
		}
		return sign * c
	})

	out := make([]models.Quote, len(rows))
	for i := range rows {
		out[i] = rows[i].q
	}
	return out
}

// DisplayQuotes is the list shown to the user: filtered, then sorted.
func DisplayQuotes(quotes []models.Quote, products []models.Article, f Filter, s Sort) []models.Quote {
	return SortQuotes(FilterQuotes(quotes, f), products, s)
}
