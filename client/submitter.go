package client

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/guard"
	"github.com/diewo77/offermaster/internal/quoteview"
)

// ErrEmptySelection is returned when submitting a quote with no items.
var ErrEmptySelection = errors.New("no articles selected")

// QuoteSubmitter turns a Selection into at most one quote per user action.
type QuoteSubmitter struct {
	Client *Client
	guard  guard.Guard
}

func NewQuoteSubmitter(c *Client) *QuoteSubmitter {
	return &QuoteSubmitter{Client: c}
}

// State reports whether a submit is in flight.
func (s *QuoteSubmitter) State() guard.State { return s.guard.State() }

// QuoteDraft holds the optional parts of a new quote.
type QuoteDraft struct {
	Discount    *decimal.Decimal
	ProjectID   *uint
	LogoBase64  string
	Description string
}

// Submit creates a quote from sel. A call made while another is running is
// dropped and returns ran=false. On success the selection is cleared.
func (s *QuoteSubmitter) Submit(ctx context.Context, sel *quoteview.Selection, draft QuoteDraft) (id uint, ran bool, err error) {
	if sel.Empty() {
		return 0, false, ErrEmptySelection
	}
	ran, err = s.guard.Do(ctx, func(ctx context.Context) error {
		items := sel.Items()
		req := CreateQuoteRequest{
			Items:       make([]QuoteItemRequest, len(items)),
			Discount:    draft.Discount,
			ProjectID:   draft.ProjectID,
			LogoBase64:  draft.LogoBase64,
			Description: draft.Description,
		}
		for i, it := range items {
			req.Items[i] = QuoteItemRequest{ArticleID: it.ProductID, Quantity: it.Quantity}
		}
		created, err := s.Client.CreateQuote(ctx, req)
		if err != nil {
			return err
		}
		id = created
		sel.Clear()
		return nil
	})
	return id, ran, err
}
