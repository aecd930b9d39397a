package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/diewo77/offermaster/internal/calendar"
	"github.com/diewo77/offermaster/internal/models"
)

func newCalendarCommand(e *env) *cobra.Command {
	var date, view string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the calendar grid with events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := models.DateOf(time.Now())
			if date != "" {
				d, err := models.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
				}
				ref = d
			}
			c, err := e.client()
			if err != nil {
				return err
			}
			g, err := c.Calendar(cmd.Context(), ref, calendar.ParseView(view))
			if err != nil {
				return e.fail(err)
			}
			printGrid(e, *g)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "reference day (YYYY-MM-DD), default today")
	cmd.Flags().StringVar(&view, "view", "month", "day, week or month")
	return cmd
}

// printGrid writes one line per row of days, then the events of each day.
func printGrid(e *env, g calendar.Grid) {
	fmt.Fprintln(e.out, g.Title)
	var listed []calendar.Cell
	for _, row := range g.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			mark := " "
			switch {
			case c.IsToday:
				mark = "*"
			case len(c.Events) > 0:
				mark = "+"
			}
			day := fmt.Sprintf("%2d%s", c.Date.Day(), mark)
			if !c.InMonth && g.View == calendar.Month {
				day = "   "
			}
			cells[i] = day
			if len(c.Events) > 0 {
				listed = append(listed, c)
			}
		}
		fmt.Fprintln(e.out, strings.Join(cells, " "))
	}
	for _, c := range listed {
		for _, ev := range c.Events {
			fmt.Fprintf(e.out, "%s  %s\n", c.Date, ev.Title)
		}
	}
}
