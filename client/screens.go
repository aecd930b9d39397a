package client

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/calendar"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/quoteview"
)

// QuotesScreen is the state behind the quote list. Data only changes on Load.
type QuotesScreen struct {
	Client   *Client
	Filter   quoteview.Filter
	Sort     quoteview.Sort
	Quotes   []models.Quote
	Articles []models.Article
	Projects []models.Project
}

func NewQuotesScreen(c *Client) *QuotesScreen {
	return &QuotesScreen{Client: c, Filter: quoteview.Filter{Project: quoteview.AllProjects()}, Sort: quoteview.DefaultSort()}
}

// Load fetches quotes, the whole catalog and projects.
func (s *QuotesScreen) Load(ctx context.Context) error {
	summaries, err := s.Client.Quotes(ctx, nil)
	if err != nil {
		return err
	}
	articles, err := s.Client.AllArticles(ctx)
	if err != nil {
		return err
	}
	projects, err := s.Client.Projects(ctx)
	if err != nil {
		return err
	}
	quotes := make([]models.Quote, len(summaries))
	for i, q := range summaries {
		quotes[i] = q.Quote
	}
	s.Quotes, s.Articles, s.Projects = quotes, articles, projects
	return nil
}

// SetFilter replaces the filter and reloads.
func (s *QuotesScreen) SetFilter(ctx context.Context, f quoteview.Filter) error {
	s.Filter = f
	return s.Load(ctx)
}

// SetSort replaces the sort. Sorting is local so nothing is fetched.
func (s *QuotesScreen) SetSort(sort quoteview.Sort) { s.Sort = sort }

// Visible is the filtered and sorted list shown to the user.
func (s *QuotesScreen) Visible() []models.Quote {
	return quoteview.DisplayQuotes(s.Quotes, s.Articles, s.Filter, s.Sort)
}

// Total is the discounted total of q against the loaded catalog.
func (s *QuotesScreen) Total(q models.Quote) decimal.Decimal {
	return quoteview.ComputeDiscountedTotal(q, s.Articles)
}

// CreateProject checks the name against the loaded projects, then creates the
// project and adds it to the list.
func (s *QuotesScreen) CreateProject(ctx context.Context, in ProjectRequest) (*models.Project, error) {
	p, err := s.Client.createProject(ctx, in, s.Projects)
	if err != nil {
		return nil, err
	}
	s.Projects = append(s.Projects, *p)
	return p, nil
}

// ProjectName returns the name of the project id, or "" if it is not loaded.
func (s *QuotesScreen) ProjectName(id *uint) string {
	if id == nil {
		return ""
	}
	for _, p := range s.Projects {
		if p.ID == *id {
			return p.Name
		}
	}
	return ""
}

// CalendarScreen is the state behind the calendar view.
type CalendarScreen struct {
	Client *Client
	Ref    time.Time
	View   calendar.View
	Events []models.CalendarEvent
	Clock  calendar.Clock
	Lang   string
}

func NewCalendarScreen(c *Client) *CalendarScreen {
	s := &CalendarScreen{Client: c, View: calendar.Month, Clock: time.Now, Lang: c.Lang}
	s.Ref = calendar.Today(s.Clock)
	return s
}

// Load fetches the user's events.
func (s *CalendarScreen) Load(ctx context.Context) error {
	events, err := s.Client.Events(ctx)
	if err != nil {
		return err
	}
	s.Events = events
	return nil
}

func (s *CalendarScreen) Next()     { s.Ref = calendar.Next(s.Ref, s.View) }
func (s *CalendarScreen) Previous() { s.Ref = calendar.Previous(s.Ref, s.View) }
func (s *CalendarScreen) Today()    { s.Ref = calendar.Today(s.Clock) }

func (s *CalendarScreen) SetView(v calendar.View) { s.View = v }

// Grid lays out the cached events for the current reference and view.
func (s *CalendarScreen) Grid() calendar.Grid {
	return calendar.BuildGrid(s.Ref, s.View, s.Events, s.Clock, s.Lang)
}

// AddEvent creates an event and appends it to the cache.
func (s *CalendarScreen) AddEvent(ctx context.Context, in EventRequest) (*models.CalendarEvent, error) {
	e, err := s.Client.CreateEvent(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Events = append(s.Events, *e)
	return e, nil
}

// DeleteEvent removes an event on the server and from the cache.
func (s *CalendarScreen) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.Client.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.Events = slices.DeleteFunc(s.Events, func(e models.CalendarEvent) bool { return e.ID == id })
	return nil
}
