package calendar

import (
	"time"

	"github.com/diewo77/offermaster/internal/models"
)

// Cell is one rendered day of the grid.
type Cell struct {
	Date    models.Date            `json:"date"`
	InMonth bool                   `json:"inMonth"`
	IsToday bool                   `json:"isToday"`
	Events  []models.CalendarEvent `json:"events"`
}

// Grid is the full layout for a reference date and view.
type Grid struct {
	View      View        `json:"view"`
	Reference models.Date `json:"reference"`
	Title     string      `json:"title"`
	Prev      models.Date `json:"prev"`
	Next      models.Date `json:"next"`
	Rows      [][]Cell    `json:"rows"`
}

// BuildGrid lays out ref's view and assigns each event to its day.
// Events outside the visible range are dropped.
func BuildGrid(ref time.Time, view View, events []models.CalendarEvent, now Clock, lang string) Grid {
	today := Today(now)
	cells := CellsForView(ref, view)
	width := 7
	if view == Day {
		width = 1
	}
	g := Grid{
		View:      view,
		Reference: models.DateOf(ref),
		Title:     Title(ref, view, lang),
		Prev:      models.DateOf(Previous(ref, view)),
		Next:      models.DateOf(Next(ref, view)),
	}
	for i := 0; i < len(cells); i += width {
		row := make([]Cell, 0, width)
		for _, d := range cells[i : i+width] {
			evs := EventsOnDate(d, events)
			if evs == nil {
				evs = []models.CalendarEvent{}
			}
			row = append(row, Cell{
				Date:    models.DateOf(d),
				InMonth: d.Month() == ref.Month() && d.Year() == ref.Year(),
				IsToday: SameDay(d, today),
				Events:  evs,
			})
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}
