package quoteview

import (
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/models"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ids(qs []models.Quote) []uint {
	out := make([]uint, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var catalog = []models.Article{
	{ID: 1, Name: "Cement", Price: dec("10")},
	{ID: 2, Name: "Tiles", Price: dec("5")},
}

func TestComputeTotals(t *testing.T) {
	q := models.Quote{
		Items:    []models.QuoteItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 3}},
		Discount: dec("10"),
	}
	if got := ComputeLineTotal(q, catalog); !got.Equal(dec("35")) {
		t.Fatalf("raw total = %s, want 35", got)
	}
	if got := ComputeDiscountedTotal(q, catalog); !got.Equal(dec("31.5")) {
		t.Fatalf("discounted total = %s, want 31.5", got)
	}
}

func TestComputeLineTotal_UnknownProduct(t *testing.T) {
	q := models.Quote{Items: []models.QuoteItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 4},
		{ProductID: 1, Quantity: 2},
	}}
	if got := ComputeLineTotal(q, catalog); !got.Equal(dec("30")) {
		t.Fatalf("got %s, want 30", got)
	}
	if got := ComputeLineTotal(q, nil); !got.IsZero() {
		t.Fatalf("empty catalog should give zero, got %s", got)
	}
}

func TestComputeDiscountedTotal_Bounds(t *testing.T) {
	q := models.Quote{Items: []models.QuoteItem{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 1}}}
	raw := ComputeLineTotal(q, catalog)

	q.Discount = decimal.Zero
	if got := ComputeDiscountedTotal(q, catalog); !got.Equal(raw) {
		t.Fatalf("discount 0: got %s want %s", got, raw)
	}
	q.Discount = dec("100")
	if got := ComputeDiscountedTotal(q, catalog); !got.IsZero() {
		t.Fatalf("discount 100: got %s want 0", got)
	}
	// Out of range values are not clamped.
	q.Discount = dec("150")
	if got := ComputeDiscountedTotal(q, catalog); !got.Equal(dec("-17.5")) {
		t.Fatalf("discount 150: got %s", got)
	}
}

func TestFilterQuotes_ProjectScope(t *testing.T) {
	quotes := []models.Quote{
		{ID: 1, ProjectID: ptr(uint(7))},
		{ID: 2},
		{ID: 3, ProjectID: ptr(uint(8))},
		{ID: 4},
		{ID: 5, ProjectID: ptr(uint(7))},
	}
	tests := []struct {
		name  string
		scope Scope
		want  []uint
	}{
		{"all", AllProjects(), []uint{1, 2, 3, 4, 5}},
		{"zero value", Scope{}, []uint{1, 2, 3, 4, 5}},
		{"none", NoProject(), []uint{2, 4}},
		{"project 7", ForProject(7), []uint{1, 5}},
		{"unknown project", ForProject(99), []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterQuotes(quotes, Filter{Project: tt.scope})
			if !equalIDs(ids(got), tt.want) {
				t.Fatalf("got %v want %v", ids(got), tt.want)
			}
		})
	}
}

func TestFilterQuotes_NoneExcludesEveryFiledQuote(t *testing.T) {
	quotes := []models.Quote{{ID: 1, ProjectID: ptr(uint(1))}, {ID: 2}, {ID: 3, ProjectID: ptr(uint(2))}}
	got := FilterQuotes(quotes, Filter{Project: NoProject()})
	for _, q := range got {
		if q.ProjectID != nil {
			t.Fatalf("quote %d has a project", q.ID)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly the unfiled quote, got %v", ids(got))
	}
}

func TestFilterQuotes_DateBoundsAreWholeDays(t *testing.T) {
	loc := time.UTC
	at := func(d, h int) time.Time { return time.Date(2024, time.March, d, h, 0, 0, 0, loc) }
	quotes := []models.Quote{
		{ID: 1, CreatedAt: at(9, 23)},
		{ID: 2, CreatedAt: at(10, 0)},
		{ID: 3, CreatedAt: at(12, 23)},
		{ID: 4, CreatedAt: at(13, 0)},
	}
	// Bounds carry a time of day which must be ignored.
	from := at(10, 15)
	to := at(12, 1)
	got := FilterQuotes(quotes, Filter{DateFrom: &from, DateTo: &to})
	if !equalIDs(ids(got), []uint{2, 3}) {
		t.Fatalf("got %v", ids(got))
	}

	got = FilterQuotes(quotes, Filter{Project: NoProject(), DateFrom: &from})
	if !equalIDs(ids(got), []uint{2, 3, 4}) {
		t.Fatalf("conjunction: got %v", ids(got))
	}
}

func TestSortQuotes_ByID(t *testing.T) {
	quotes := []models.Quote{{ID: 3}, {ID: 1}, {ID: 2}}
	if got := ids(SortQuotes(quotes, nil, Sort{Field: FieldID, Order: Asc})); !equalIDs(got, []uint{1, 2, 3}) {
		t.Fatalf("asc: got %v", got)
	}
	if got := ids(SortQuotes(quotes, nil, Sort{Field: FieldID, Order: Desc})); !equalIDs(got, []uint{3, 2, 1}) {
		t.Fatalf("desc: got %v", got)
	}
	if !equalIDs(ids(quotes), []uint{3, 1, 2}) {
		t.Fatalf("input was mutated: %v", ids(quotes))
	}
}

func TestSortQuotes_StableOnTies(t *testing.T) {
	same := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	quotes := []models.Quote{
		{ID: 5, CreatedAt: same},
		{ID: 2, CreatedAt: same.Add(time.Hour)},
		{ID: 9, CreatedAt: same},
		{ID: 1, CreatedAt: same},
	}
	asc := ids(SortQuotes(quotes, nil, Sort{Field: FieldCreatedAt, Order: Asc}))
	if !equalIDs(asc, []uint{5, 9, 1, 2}) {
		t.Fatalf("asc: got %v", asc)
	}
	desc := ids(SortQuotes(quotes, nil, Sort{Field: FieldCreatedAt, Order: Desc}))
	if !equalIDs(desc, []uint{2, 5, 9, 1}) {
		t.Fatalf("desc: got %v", desc)
	}
}

func TestSortQuotes_ByTotalAmount(t *testing.T) {
	quotes := []models.Quote{
		{ID: 1, Items: []models.QuoteItem{{ProductID: 1, Quantity: 1}}},                      // 10
		{ID: 2, Items: []models.QuoteItem{{ProductID: 2, Quantity: 1}}},                      // 5
		{ID: 3, Items: []models.QuoteItem{{ProductID: 1, Quantity: 3}}, Discount: dec("50")}, // 15
		{ID: 4, Items: []models.QuoteItem{{ProductID: 42, Quantity: 3}}},                     // 0
	}
	got := ids(SortQuotes(quotes, catalog, Sort{Field: FieldTotalAmount, Order: Desc}))
	if !equalIDs(got, []uint{3, 1, 2, 4}) {
		t.Fatalf("got %v", got)
	}
}

func TestDisplayQuotes(t *testing.T) {
	quotes := []models.Quote{
		{ID: 1, ProjectID: ptr(uint(2))},
		{ID: 4},
		{ID: 3, ProjectID: ptr(uint(2))},
		{ID: 2, ProjectID: ptr(uint(2))},
	}
	got := DisplayQuotes(quotes, catalog, Filter{Project: ForProject(2)}, Sort{Field: FieldID, Order: Asc})
	if !equalIDs(ids(got), []uint{1, 2, 3}) {
		t.Fatalf("got %v", ids(got))
	}
	if got := DisplayQuotes(nil, nil, Filter{}, DefaultSort()); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", ids(got))
	}
}

func TestParseScopeAndSort(t *testing.T) {
	if s := ParseScope("NONE"); s != NoProject() {
		t.Fatalf("none: got %v", s)
	}
	if id, ok := ParseScope("12").ProjectID(); !ok || id != 12 {
		t.Fatalf("project: got %d %v", id, ok)
	}
	if s := ParseScope("-3"); s != AllProjects() {
		t.Fatalf("garbage should be all, got %v", s)
	}
	if s := ParseSort("bogus", "sideways"); s != DefaultSort() {
		t.Fatalf("got %+v", s)
	}
	if s := ParseSort("totalAmount", "ASC"); s.Field != FieldTotalAmount || s.Order != Asc {
		t.Fatalf("got %+v", s)
	}
}

func TestFromQuery(t *testing.T) {
	v := url.Values{"project": {"none"}, "from": {"2024-01-05"}, "sort": {"id"}, "order": {"asc"}}
	f, s, err := FromQuery(v, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Project != NoProject() || f.DateFrom == nil || f.DateTo != nil {
		t.Fatalf("unexpected filter %+v", f)
	}
	if s != (Sort{Field: FieldID, Order: Asc}) {
		t.Fatalf("unexpected sort %+v", s)
	}
	if _, _, err := FromQuery(url.Values{"to": {"05/01/2024"}}, time.UTC); err == nil {
		t.Fatalf("expected error for bad date")
	}
}

func TestParseFilter_ProjectID(t *testing.T) {
	f, err := ParseFilter(url.Values{"project": {"7"}, "to": {"2024-02-29"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Project != ForProject(7) || f.DateTo == nil || f.DateTo.Day() != 29 {
		t.Fatalf("unexpected filter %+v", f)
	}
	f, err = ParseFilter(url.Values{"project": {"abc"}}, time.UTC)
	if err != nil || f.Project != AllProjects() {
		t.Fatalf("expected unknown scope to fall back to all, got %+v (%v)", f, err)
	}
}

func TestSelection(t *testing.T) {
	var s Selection
	s.Increment(1)
	s.Increment(1)
	s.Increment(2)
	if s.Quantity(1) != 2 || s.Quantity(2) != 1 || s.Len() != 2 {
		t.Fatalf("unexpected items %+v", s.Items())
	}

	s.Decrement(2)
	if s.Quantity(2) != 0 || s.Len() != 1 {
		t.Fatalf("decrement to zero should remove: %+v", s.Items())
	}
	s.Decrement(42) // no-op
	if s.Len() != 1 {
		t.Fatalf("decrementing an absent entry changed the selection")
	}

	if !s.SetQuantity(3, "3") || s.Quantity(3) != 3 {
		t.Fatalf("set on fresh id: %+v", s.Items())
	}
	if !s.SetQuantity(3, "") || s.Quantity(3) != 0 {
		t.Fatalf("empty should remove: %+v", s.Items())
	}
	s.SetQuantity(1, "0")
	if s.Quantity(1) != 0 {
		t.Fatalf("zero should remove: %+v", s.Items())
	}
	if !s.Empty() {
		t.Fatalf("expected empty selection, got %+v", s.Items())
	}

	s.SetQuantity(4, "5")
	if s.SetQuantity(4, "5a") || s.SetQuantity(4, "-1") {
		t.Fatalf("non digit input must be rejected")
	}
	if s.Quantity(4) != 5 {
		t.Fatalf("rejected input must leave quantity untouched, got %d", s.Quantity(4))
	}
	s.SetQuantity(4, "99999999999999999999999")
	if s.Quantity(4) != 0 {
		t.Fatalf("overflowing input should remove the entry")
	}
}

func TestSelection_ItemsIsACopy(t *testing.T) {
	var s Selection
	s.Increment(1)
	items := s.Items()
	items[0].Quantity = 50
	if s.Quantity(1) != 1 {
		t.Fatalf("selection changed through returned slice")
	}
}

func TestSelection_Total(t *testing.T) {
	var s Selection
	s.SetQuantity(1, "2")
	s.SetQuantity(2, "3")
	if got := s.Total(catalog, dec("10")); !got.Equal(dec("31.5")) {
		t.Fatalf("got %s", got)
	}
}
