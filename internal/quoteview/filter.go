package quoteview

import (
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/offermaster/internal/models"
)

type scopeKind uint8

const (
	scopeAll scopeKind = iota
	scopeNone
	scopeProject
)

// Scope restricts quotes by project: every quote, only unfiled quotes, or
// quotes filed under exactly one project. The zero value means every quote.
type Scope struct {
	kind scopeKind
	id   uint
}

// AllProjects matches every quote.
func AllProjects() Scope { return Scope{kind: scopeAll} }

// NoProject matches quotes without a project.
func NoProject() Scope { return Scope{kind: scopeNone} }

// ForProject matches quotes filed under project id.
func ForProject(id uint) Scope { return Scope{kind: scopeProject, id: id} }

// ProjectID returns the project id for a ForProject scope.
func (s Scope) ProjectID() (uint, bool) {
	return s.id, s.kind == scopeProject
}

func (s Scope) String() string {
	switch s.kind {
	case scopeNone:
		return "none"
	case scopeProject:
		return strconv.FormatUint(uint64(s.id), 10)
	}
	return "all"
}

// ParseScope reads "all", "none" or a project id. Anything else is "all".
func ParseScope(raw string) Scope {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "", "all":
		return AllProjects()
	case "none":
		return NoProject()
	default:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return AllProjects()
		}
		return ForProject(uint(id))
	}
}

func (s Scope) match(q *models.Quote) bool {
	switch s.kind {
	case scopeNone:
		return q.ProjectID == nil
	case scopeProject:
		return q.ProjectID != nil && *q.ProjectID == s.id
	}
	return true
}

// Filter selects quotes by project and creation date. Nil bounds are open.
type Filter struct {
	Project  Scope
	DateFrom *time.Time
	DateTo   *time.Time
}

// StartOfDay returns midnight at the start of t's day, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's day, in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FilterQuotes keeps, in order, the quotes matching every criterion of f.
func FilterQuotes(quotes []models.Quote, f Filter) []models.Quote {
	var from, to time.Time
	if f.DateFrom != nil {
		from = StartOfDay(*f.DateFrom)
	}
	if f.DateTo != nil {
		to = EndOfDay(*f.DateTo)
	}
	out := make([]models.Quote, 0, len(quotes))
	for i := range quotes {
		q := &quotes[i]
		if !f.Project.match(q) {
			continue
		}
		if f.DateFrom != nil && q.CreatedAt.Before(from) {
			continue
		}
		if f.DateTo != nil && q.CreatedAt.After(to) {
			continue
		}
		out = append(out, *q)
	}
	return out
}
