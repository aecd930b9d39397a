package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/quoteview"
)

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="

func TestQuoteCreateValidation(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f.db, "ana@example.com")
	a := seedArticle(t, f.db, "Pločice", "10")
	over := decimal.NewFromInt(101)

	tests := []struct {
		name  string
		in    CreateQuoteInput
		field string
	}{
		{"empty items", CreateQuoteInput{}, "items"},
		{"zero quantity", CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: a.ID, Quantity: 0}}}, "items[0].quantity"},
		{"discount above 100", CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: a.ID, Quantity: 1}}, Discount: &over}, "discount"},
	}
	for _, tt := range tests {
		_, err := f.quotes.Create(as(u), tt.in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected validation error got %v", tt.name, err)
		}
		if _, ok := verr.Violations[tt.field]; !ok {
			t.Fatalf("%s: expected violation on %s got %v", tt.name, tt.field, verr.Violations)
		}
	}

	_, err := f.quotes.Create(as(u), CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: 999, Quantity: 1}}})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected unknown article to be rejected got %v", err)
	}
	var n int64
	f.db.Model(&models.Quote{}).Count(&n)
	if n != 0 {
		t.Fatalf("expected no quotes stored got %d", n)
	}
}

func TestQuoteCreateStoresItemsAndLogo(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f.db, "ana@example.com")
	a := seedArticle(t, f.db, "Pločice", "10")
	b := seedArticle(t, f.db, "Ljepilo", "2.50")
	discount := decimal.NewFromInt(10)

	q, err := f.quotes.Create(as(u), CreateQuoteInput{
		Items:       []QuoteItemInput{{ArticleID: a.ID, Quantity: 2}, {ArticleID: b.ID, Quantity: 4}, {ArticleID: a.ID, Quantity: 1}},
		Discount:    &discount,
		LogoBase64:  pngDataURL,
		Description: "Kupaonica",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.LogoURL == "" || f.store.Len() != 1 {
		t.Fatalf("expected logo uploaded, url=%q stored=%d", q.LogoURL, f.store.Len())
	}

	got, err := f.quotes.Summary(as(u), q.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(got.Items) != 3 || got.Items[2].ProductID != a.ID {
		t.Fatalf("expected items kept in order with duplicates, got %+v", got.Items)
	}
	// (2*10 + 4*2.5 + 1*10) * 0.9 = 36
	if !got.TotalAmount.Equal(decimal.NewFromInt(36)) {
		t.Fatalf("expected total 36 got %s", got.TotalAmount)
	}
}

func TestQuoteOwnership(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com")
	other := seedUser(t, f.db, "other@example.com")
	a := seedArticle(t, f.db, "Pločice", "10")

	q, err := f.quotes.Create(as(owner), CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: a.ID, Quantity: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.quotes.Get(as(other), q.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden got %v", err)
	}
	if _, err := f.quotes.Get(as(owner), 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}

	p := models.Project{UserID: other.ID, Name: "Tuđi", Address: "Ilica 1"}
	f.db.Create(&p)
	_, err = f.quotes.Create(as(owner), CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: a.ID, Quantity: 1}}, ProjectID: &p.ID})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden for someone else's project got %v", err)
	}
}

func TestQuoteDisplayFiltersAndSorts(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f.db, "ana@example.com")
	cheap := seedArticle(t, f.db, "Silikon", "1")
	dear := seedArticle(t, f.db, "Kada", "300")
	p := models.Project{UserID: u.ID, Name: "Stan", Address: "Vukovarska 2"}
	f.db.Create(&p)

	mk := func(article uint, project *uint) uint {
		q, err := f.quotes.Create(as(u), CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: article, Quantity: 1}}, ProjectID: project})
		if err != nil {
			t.Fatal(err)
		}
		return q.ID
	}
	q1 := mk(cheap.ID, &p.ID)
	q2 := mk(dear.ID, nil)
	q3 := mk(dear.ID, &p.ID)

	all, err := f.quotes.Display(as(u), quoteview.Filter{}, quoteview.Sort{Field: quoteview.FieldTotalAmount, Order: quoteview.Desc})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[2].ID != q1 || !all[2].TotalAmount.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected cheapest last, got %+v", all)
	}
	// equal totals keep storage order
	if all[0].ID != q2 || all[1].ID != q3 {
		t.Fatalf("expected stable order for equal totals got %d,%d", all[0].ID, all[1].ID)
	}

	scoped, _ := f.quotes.Display(as(u), quoteview.Filter{Project: quoteview.ForProject(p.ID)}, quoteview.Sort{Field: quoteview.FieldID, Order: quoteview.Asc})
	if len(scoped) != 2 || scoped[0].ID != q1 || scoped[1].ID != q3 {
		t.Fatalf("unexpected project scope result %+v", scoped)
	}
	none, _ := f.quotes.Display(as(u), quoteview.Filter{Project: quoteview.NoProject()}, quoteview.DefaultSort())
	if len(none) != 1 || none[0].ID != q2 {
		t.Fatalf("unexpected no-project result %+v", none)
	}

	other := seedUser(t, f.db, "other@example.com")
	mine, _ := f.quotes.Display(as(other), quoteview.Filter{}, quoteview.DefaultSort())
	if len(mine) != 0 {
		t.Fatalf("expected other user to see nothing, got %d", len(mine))
	}
}

func TestQuotePDFAndEmail(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f.db, "ana@example.com")
	a := seedArticle(t, f.db, "Pločice", "10")
	q, err := f.quotes.Create(as(u), CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: a.ID, Quantity: 3}}})
	if err != nil {
		t.Fatal(err)
	}
	out, err := f.quotes.PDF(as(u), q.ID, "hr")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF output")
	}

	if err := f.quotes.Email(as(u), q.ID, "not-an-email", "", "hr"); err == nil {
		t.Fatal("expected invalid recipient to be rejected")
	}
	if err := f.quotes.Email(as(u), q.ID, "kupac@example.com", "", "hr"); err != nil {
		t.Fatalf("email: %v", err)
	}
	msg, ok := f.mail.Last()
	if !ok {
		t.Fatal("expected a message")
	}
	if msg.ToName != "Korisniče" || len(msg.Attachments) != 1 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if want := "Ponuda-" + itoa(q.ID) + ".pdf"; msg.Attachments[0].Name != want {
		t.Fatalf("expected attachment %s got %s", want, msg.Attachments[0].Name)
	}
	if want := "Vaša ponuda #" + itoa(q.ID); msg.Subject != want {
		t.Fatalf("expected subject %q got %q", want, msg.Subject)
	}

	other := seedUser(t, f.db, "ivo@example.com")
	if err := f.quotes.Email(as(other), q.ID, "kupac@example.com", "", "hr"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden mailing someone else's quote got %v", err)
	}
}

func TestQuoteExport(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f.db, "ana@example.com")
	a := seedArticle(t, f.db, "Pločice", "10")
	p := models.Project{UserID: u.ID, Name: "Stan", Address: "Vukovarska 2"}
	f.db.Create(&p)
	if _, err := f.quotes.Create(as(u), CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: a.ID, Quantity: 3}}, ProjectID: &p.ID}); err != nil {
		t.Fatal(err)
	}
	wb, err := f.quotes.Export(as(u), quoteview.Filter{}, quoteview.DefaultSort())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer wb.Close()
	project, _ := wb.GetCellValue("Ponude", "C2")
	if project != "Stan" {
		t.Fatalf("expected project name in export got %q", project)
	}
}
