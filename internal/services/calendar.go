package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/offermaster/gate"
	"github.com/diewo77/offermaster/internal/calendar"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/policy"
	"github.com/diewo77/offermaster/validation"
)

// EventInput creates a calendar event.
type EventInput struct {
	Title   string      `json:"title"`
	Date    models.Date `json:"date"`
	QuoteID *uint       `json:"quoteId,omitempty"`
}

// EventService manages the current user's calendar.
type EventService struct {
	DB    *gorm.DB
	Gate  *policy.AuthGate
	Clock calendar.Clock
}

func NewEventService(db *gorm.DB, g *policy.AuthGate) *EventService {
	return &EventService{DB: db, Gate: g, Clock: time.Now}
}

// List returns the user's events by date.
func (s *EventService) List(ctx context.Context) ([]models.CalendarEvent, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	events := []models.CalendarEvent{}
	if err := s.DB.WithContext(ctx).Where("user_id = ?", uid).Order("date, id").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Create stores an event. A referenced quote must exist and belong to the user.
func (s *EventService) Create(ctx context.Context, in EventInput) (*models.CalendarEvent, error) {
	uid, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	v := validation.Violations{}
	validation.Required("title", in.Title, v)
	validation.MaxLen("title", in.Title, 255, v)
	if in.Date.IsZero() {
		v["date"] = "required"
	}
	if err := invalid(v); err != nil {
		return nil, err
	}
	if in.QuoteID != nil {
		var q models.Quote
		err := s.DB.WithContext(ctx).First(&q, *in.QuoteID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		if err := s.Gate.Authorize(ctx, gate.ActionView, policy.ResourceQuote, &q); err != nil {
			return nil, err
		}
	}
	e := models.CalendarEvent{UserID: uid, Title: in.Title, Date: in.Date, QuoteID: in.QuoteID}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &e, nil
}

func (s *EventService) Delete(ctx context.Context, id uint) error {
	var e models.CalendarEvent
	err := s.DB.WithContext(ctx).First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := s.Gate.Authorize(ctx, gate.ActionDelete, policy.ResourceCalendarEvent, &e); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&e).Error; err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}

// Grid lays out the user's events around ref.
func (s *EventService) Grid(ctx context.Context, ref time.Time, view calendar.View, lang string) (calendar.Grid, error) {
	events, err := s.List(ctx)
	if err != nil {
		return calendar.Grid{}, err
	}
	return calendar.BuildGrid(ref, view, events, s.Clock, lang), nil
}
