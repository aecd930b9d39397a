// Package calendar lays out the day, week and month grids of the event
// calendar and moves the reference date between them. Weeks start on Monday.
// All functions are pure; the current time is injected through Clock.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/offermaster/internal/models"
)

// View is the granularity of the calendar.
type View string

const (
	Day   View = "day"
	Week  View = "week"
	Month View = "month"
)

// ParseView reads a view name, defaulting to Month.
func ParseView(s string) View {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case Day:
		return Day
	case Week:
		return Week
	}
	return Month
}

// Clock returns the current time.
type Clock func() time.Time

// Today returns the current calendar day, at midnight.
func Today(now Clock) time.Time {
	if now == nil {
		now = time.Now
	}
	return dayOf(now())
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// mondayOf returns the Monday on or before t.
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return dayOf(t).AddDate(0, 0, -offset)
}

// sundayOf returns the Sunday on or after t.
func sundayOf(t time.Time) time.Time {
	offset := (7 - int(t.Weekday())) % 7
	return dayOf(t).AddDate(0, 0, offset)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// addMonths moves t by n calendar months, clamping the day to the end of
// the target month (Jan 31 + 1 month is Feb 28/29, never March).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// CellsForView returns the dates displayed for ref in the given view.
// Day is a single cell, week is Monday through Sunday, and month is every
// full week touching the month, so its length is always a multiple of 7.
func CellsForView(ref time.Time, view View) []time.Time {
	switch view {
	case Day:
		return []time.Time{dayOf(ref)}
	case Week:
		return span(mondayOf(ref), 7)
	}
	y, m, _ := ref.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	last := time.Date(y, m, daysIn(y, m, ref.Location()), 0, 0, 0, 0, ref.Location())
	start := mondayOf(first)
	end := sundayOf(last)
	n := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		n++
	}
	return span(start, n)
}

func span(start time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}

// SameDay reports whether a and b fall on the same calendar day, ignoring
// time of day and location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EventsOnDate returns, in input order, the events on date's calendar day.
func EventsOnDate(date time.Time, events []models.CalendarEvent) []models.CalendarEvent {
	var out []models.CalendarEvent
	for _, e := range events {
		if SameDay(e.Date.Time, date) {
			out = append(out, e)
		}
	}
	return out
}

// Next moves ref forward by one unit of view: a day, a week or a calendar month.
func Next(ref time.Time, view View) time.Time {
	return step(ref, view, 1)
}

// Previous moves ref back by one unit of view.
func Previous(ref time.Time, view View) time.Time {
	return step(ref, view, -1)
}

func step(ref time.Time, view View, dir int) time.Time {
	switch view {
	case Day:
		return ref.AddDate(0, 0, dir)
	case Week:
		return ref.AddDate(0, 0, 7*dir)
	}
	return addMonths(ref, dir)
}

var monthNames = map[string][12]string{
	"hr": {"siječanj", "veljača", "ožujak", "travanj", "svibanj", "lipanj", "srpanj", "kolovoz", "rujan", "listopad", "studeni", "prosinac"},
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

// MonthName returns the localized month name; unknown languages use Croatian.
func MonthName(m time.Month, lang string) string {
	names, ok := monthNames[lang]
	if !ok {
		names = monthNames["hr"]
	}
	return names[m-1]
}

// Title is the heading shown above the grid.
func Title(ref time.Time, view View, lang string) string {
	switch view {
	case Day:
		return ref.Format("02.01.2006.")
	case Week:
		start := mondayOf(ref)
		end := start.AddDate(0, 0, 6)
		return fmt.Sprintf("%s - %s", start.Format("02.01."), end.Format("02.01.2006."))
	}
	return fmt.Sprintf("%s %d", MonthName(ref.Month(), lang), ref.Year())
}
