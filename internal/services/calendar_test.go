package services

import (
	"errors"
	"testing"
	"time"

	"github.com/diewo77/offermaster/internal/calendar"
	"github.com/diewo77/offermaster/internal/models"
)

func TestEventCreateValidation(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f.db, "ana@example.com")
	_, err := f.events.Create(as(u), EventInput{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error got %v", err)
	}
	if verr.Violations["title"] != "required" || verr.Violations["date"] != "required" {
		t.Fatalf("unexpected violations %v", verr.Violations)
	}

	missing := uint(4242)
	if _, err := f.events.Create(as(u), EventInput{Title: "Obilazak", Date: models.NewDate(2026, 3, 2), QuoteID: &missing}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing quote got %v", err)
	}
}

func TestEventQuoteMustBeOwned(t *testing.T) {
	f := newFixture(t)
	owner := seedUser(t, f.db, "owner@example.com")
	other := seedUser(t, f.db, "other@example.com")
	a := seedArticle(t, f.db, "Pločice", "10")
	q, err := f.quotes.Create(as(owner), CreateQuoteInput{Items: []QuoteItemInput{{ArticleID: a.ID, Quantity: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.events.Create(as(other), EventInput{Title: "X", Date: models.NewDate(2026, 3, 2), QuoteID: &q.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden got %v", err)
	}
	e, err := f.events.Create(as(owner), EventInput{Title: "Mjerenje", Date: models.NewDate(2026, 3, 2), QuoteID: &q.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.events.Delete(as(other), e.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden delete got %v", err)
	}
	if err := f.events.Delete(as(owner), e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.events.Delete(as(owner), e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestEventListAndGrid(t *testing.T) {
	f := newFixture(t)
	u := seedUser(t, f.db, "ana@example.com")
	for _, e := range []EventInput{
		{Title: "Kasnije", Date: models.NewDate(2026, 3, 20)},
		{Title: "Prije", Date: models.NewDate(2026, 3, 2)},
		{Title: "Drugi mjesec", Date: models.NewDate(2026, 5, 1)},
	} {
		if _, err := f.events.Create(as(u), e); err != nil {
			t.Fatal(err)
		}
	}
	list, err := f.events.List(as(u))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Title != "Prije" || list[2].Title != "Drugi mjesec" {
		t.Fatalf("expected events by date got %+v", list)
	}
	if list[0].Date.String() != "2026-03-02" {
		t.Fatalf("expected date round trip got %s", list[0].Date)
	}

	f.events.Clock = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	g, err := f.events.Grid(as(u), time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), calendar.Month, "hr")
	if err != nil {
		t.Fatal(err)
	}
	var shown, today int
	for _, row := range g.Rows {
		for _, c := range row {
			shown += len(c.Events)
			if c.IsToday {
				today++
			}
		}
	}
	if shown != 2 || today != 1 {
		t.Fatalf("expected 2 March events and one today cell, got %d and %d", shown, today)
	}
}
