package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a price offer assembled from catalog articles.
// Its total is never persisted; see quoteview.ComputeDiscountedTotal.
// Implements the Ownable interface for ownership-based authorization.
type Quote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	UserID uint `gorm:"index;not null" json:"-"`

	// Items keep submission order; the same article may appear more than once.
	Items []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"items"`

	// Discount is a percentage in [0,100].
	Discount decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount"`

	// ProjectID is a weak reference; deleting the project only clears it.
	ProjectID   *uint  `gorm:"index" json:"projectId,omitempty"`
	LogoURL     string `gorm:"size:1024" json:"logoUrl,omitempty"`
	LogoKey     string `gorm:"size:255" json:"-"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

// GetUserID implements the Ownable interface for authorization.
func (q *Quote) GetUserID() uint {
	return q.UserID
}

// HasProject reports whether the quote is filed under a project.
func (q *Quote) HasProject() bool {
	return q.ProjectID != nil
}

// QuoteItem is one line of a quote. It has no identity outside its quote.
// ProductID is deliberately not a foreign key: deleting an article leaves
// the line in place and it then contributes nothing to the total.
type QuoteItem struct {
	ID        uint `gorm:"primaryKey" json:"-"`
	QuoteID   uint `gorm:"index;not null" json:"-"`
	Position  int  `gorm:"not null;default:0" json:"-"`
	ProductID uint `gorm:"column:article_id;index;not null" json:"productId"`
	Quantity  int  `gorm:"not null" json:"quantity"`
}
