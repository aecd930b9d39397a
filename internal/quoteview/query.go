package quoteview

import (
	"fmt"
	"net/url"
	"time"
)

// ParseFilter reads ?project=&from=&to= into a Filter. Dates use the
// YYYY-MM-DD layout and are interpreted in loc.
func ParseFilter(v url.Values, loc *time.Location) (Filter, error) {
	if loc == nil {
		loc = time.Local
	}
	f := Filter{Project: ParseScope(v.Get("project"))}
	if raw := v.Get("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("from: %w", err)
		}
		f.DateFrom = &t
	}
	if raw := v.Get("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("to: %w", err)
		}
		f.DateTo = &t
	}
	return f, nil
}

// FromQuery reads the filter and the sort of the quote list from v.
func FromQuery(v url.Values, loc *time.Location) (Filter, Sort, error) {
	f, err := ParseFilter(v, loc)
	if err != nil {
		return Filter{}, Sort{}, err
	}
	return f, ParseSort(v.Get("sort"), v.Get("order")), nil
}
