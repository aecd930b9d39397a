package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/internal/models"
)

// LoginResponse is returned by Login and Register.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	TokenType   string       `json:"tokenType"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        *models.User `json:"user"`
}

// ArticlePage is one page of the catalog.
type ArticlePage struct {
	Content       []models.Article `json:"content"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Size          int              `json:"size"`
	Number        int              `json:"number"`
}

// ArticleRequest creates or replaces an article.
type ArticleRequest struct {
	Name        string             `json:"name"`
	Category    models.Category    `json:"category"`
	Price       decimal.Decimal    `json:"price"`
	Description string             `json:"description,omitempty"`
	MeasureUnit models.MeasureUnit `json:"measureUnit,omitempty"`
}

// QuoteSummary is a quote with the server-computed total.
type QuoteSummary struct {
	models.Quote
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// QuoteItemRequest is one line of a new quote.
type QuoteItemRequest struct {
	ArticleID uint `json:"articleId"`
	Quantity  int  `json:"quantity"`
}

// CreateQuoteRequest is the body of POST /api/quotes.
type CreateQuoteRequest struct {
	Items       []QuoteItemRequest `json:"items"`
	LogoBase64  string             `json:"logoBase64,omitempty"`
	Discount    *decimal.Decimal   `json:"discount,omitempty"`
	ProjectID   *uint              `json:"projectId,omitempty"`
	Description string             `json:"description,omitempty"`
}

// ProjectRequest creates a project.
type ProjectRequest struct {
	Name        string               `json:"name"`
	Address     string               `json:"address"`
	Status      models.ProjectStatus `json:"status,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	ImageBase64 string               `json:"imageBase64,omitempty"`
}

// ProjectPatch is a partial project update.
type ProjectPatch struct {
	Name        *string               `json:"name,omitempty"`
	Address     *string               `json:"address,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
	Notes       *string               `json:"notes,omitempty"`
	ImageBase64 *string               `json:"imageBase64,omitempty"`
	RemoveImage bool                  `json:"removeImage,omitempty"`
}

// EventRequest creates a calendar event.
type EventRequest struct {
	Title   string      `json:"title"`
	Date    models.Date `json:"date"`
	QuoteID *uint       `json:"quoteId,omitempty"`
}

// ProfileRequest updates the signed-in user.
type ProfileRequest struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	PrimaryAreaOfWork string `json:"primaryAreaOfWork,omitempty"`
}
