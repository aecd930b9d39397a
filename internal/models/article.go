package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices and totals travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category classifies a catalog article.
type Category string

const (
	CategoryService          Category = "SERVICE"
	CategoryBuildingMaterial Category = "BUILDING_MATERIAL"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryService || c == CategoryBuildingMaterial
}

// MeasureUnit is the unit an article is priced in.
type MeasureUnit string

const (
	UnitSquareMetre MeasureUnit = "M2"
	UnitCubicMetre  MeasureUnit = "M3"
	UnitPiece       MeasureUnit = "PIECE"
)

// Valid reports whether u is a known measure unit.
func (u MeasureUnit) Valid() bool {
	switch u {
	case UnitSquareMetre, UnitCubicMetre, UnitPiece:
		return true
	}
	return false
}

// Label returns the short printable form used on quote documents.
func (u MeasureUnit) Label() string {
	switch u {
	case UnitSquareMetre:
		return "m²"
	case UnitCubicMetre:
		return "m³"
	case UnitPiece:
		return "kom"
	}
	return string(u)
}

// Article is a priced catalog entry (a "product" in the quote UI).
// The catalog is shared by every user; names are unique ignoring case.
type Article struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	NameKey     string          `gorm:"size:255;uniqueIndex;not null" json:"-"`
	Category    Category        `gorm:"size:32;not null" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	MeasureUnit MeasureUnit     `gorm:"size:16;not null;default:'PIECE'" json:"measureUnit"`
}

// NameKeyOf normalises a display name into its uniqueness key.
func NameKeyOf(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeforeSave keeps NameKey in sync with Name.
func (a *Article) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.NameKey = NameKeyOf(a.Name)
	if a.MeasureUnit == "" {
		a.MeasureUnit = UnitPiece
	}
	return nil
}
