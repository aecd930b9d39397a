// Package pdf renders quote documents.
package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/quoteview"
)

// Line is one priced row of the document.
type Line struct {
	Name      string
	Quantity  int
	Unit      string
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// QuoteDocument is everything printed on a quote.
type QuoteDocument struct {
	ID          uint
	Date        time.Time
	Description string
	Lines       []Line
	Raw         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Logo        []byte
	LogoType    string
	Lang        string
}

// BuildQuoteDocument prices q against the current catalog. Lines whose
// article no longer exists are left out, matching the computed total.
func BuildQuoteDocument(q models.Quote, products []models.Article) QuoteDocument {
	byID := make(map[uint]models.Article, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	doc := QuoteDocument{
		ID:          q.ID,
		Date:        q.CreatedAt,
		Description: q.Description,
		Discount:    q.Discount,
		Lang:        i18n.DefaultLang,
	}
	for _, it := range q.Items {
		a, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		doc.Lines = append(doc.Lines, Line{
			Name:      a.Name,
			Quantity:  it.Quantity,
			Unit:      a.MeasureUnit.Label(),
			UnitPrice: a.Price,
			Total:     a.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	catalog := quoteview.NewCatalog(products)
	doc.Raw = catalog.LineTotal(q.Items)
	doc.Total = catalog.DiscountedTotal(q)
	return doc
}

// Filename is the download name of a quote document.
func Filename(id uint) string {
	return fmt.Sprintf("ponuda-%d.pdf", id)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}

func logoExtension(contentType string) (extension.Type, bool) {
	switch strings.ToLower(contentType) {
	case "image/png":
		return extension.Png, true
	case "image/jpeg", "image/jpg":
		return extension.Jpg, true
	}
	return "", false
}

var (
	headerStyle = props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center}
	cellStyle   = props.Text{Size: 9, Align: align.Center}
	nameStyle   = props.Text{Size: 9, Align: align.Left, Left: 1}
	headerFill  = &props.Cell{BackgroundColor: &props.Color{Red: 230, Green: 230, Blue: 230}}
)

// RenderQuote produces the PDF bytes for doc.
func RenderQuote(doc QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	title := text.NewCol(8, fmt.Sprintf("PONUDA %d", doc.ID), props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Right})
	if ext, ok := logoExtension(doc.LogoType); ok && len(doc.Logo) > 0 {
		m.AddRows(row.New(25).Add(
			image.NewFromBytesCol(4, doc.Logo, ext, props.Rect{Center: true, Percent: 90}),
			title,
		))
	} else {
		m.AddRows(row.New(15).Add(text.NewCol(4, ""), title))
	}
	m.AddRows(
		row.New(8).Add(text.NewCol(12, "Datum: "+doc.Date.Format("02.01.2006."), props.Text{Size: 10, Align: align.Right})),
	)
	if doc.Description != "" {
		m.AddRows(row.New(10).Add(text.NewCol(12, doc.Description, props.Text{Size: 10, Top: 2})))
	}
	m.AddRows(line.NewRow(4))

	m.AddRows(row.New(8).Add(
		text.NewCol(5, "Naziv", headerStyle),
		text.NewCol(1, "Kol.", headerStyle),
		text.NewCol(2, "Mj. jedinica", headerStyle),
		text.NewCol(2, "Jed. cijena", headerStyle),
		text.NewCol(2, "Ukupno", headerStyle),
	).WithStyle(headerFill))

	rows := make([]core.Row, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		rows = append(rows, row.New(7).Add(
			text.NewCol(5, l.Name, nameStyle),
			text.NewCol(1, fmt.Sprintf("%d", l.Quantity), cellStyle),
			text.NewCol(2, l.Unit, cellStyle),
			text.NewCol(2, money(l.UnitPrice), cellStyle),
			text.NewCol(2, money(l.Total), cellStyle),
		))
	}
	m.AddRows(rows...)
	m.AddRows(line.NewRow(4))

	summary := props.Text{Size: 10, Align: align.Right}
	if doc.Discount.IsZero() {
		m.AddRows(row.New(7).Add(text.NewCol(12, i18n.T(doc.Lang, "no_discount"), summary)))
	} else {
		m.AddRows(
			row.New(7).Add(text.NewCol(12, money(doc.Raw), summary)),
			row.New(7).Add(text.NewCol(12, fmt.Sprintf(i18n.T(doc.Lang, "discount"), doc.Discount.String()), summary)),
		)
	}
	m.AddRows(row.New(10).Add(
		text.NewCol(12, i18n.T(doc.Lang, "total")+": "+money(doc.Total), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
	))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}
	return out.GetBytes(), nil
}
