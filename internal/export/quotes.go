// Package export writes quote lists to spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/diewo77/offermaster/internal/models"
	"github.com/diewo77/offermaster/internal/quoteview"
)

// ContentType is the MIME type of the generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheet = "Ponude"

var quoteHeaders = []string{"ID", "Datum", "Projekt", "Opis", "Stavke", "Iznos", "Rabat %", "Ukupno"}

// QuotesWorkbook lists quotes in the given order, one row each, followed by
// a summary row. projectNames resolves project ids; unknown ids print empty.
func QuotesWorkbook(quotes []models.Quote, products []models.Article, projectNames map[uint]string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, h := range quoteHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	catalog := quoteview.NewCatalog(products)
	var sum float64
	for i, q := range quotes {
		row := i + 2
		raw := catalog.LineTotal(q.Items)
		total := catalog.DiscountedTotal(q)
		project := ""
		if q.ProjectID != nil {
			project = projectNames[*q.ProjectID]
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), q.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), q.CreatedAt.Format("02.01.2006."))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), project)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), q.Description)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), len(q.Items))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), raw.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), q.Discount.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), total.InexactFloat64())
		sum += total.InexactFloat64()
	}

	summaryRow := len(quotes) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Ukupno")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", summaryRow), fmt.Sprintf("%d ponuda", len(quotes)))
	f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), sum)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	f.SetColWidth(sheet, "B", "C", 16)
	f.SetColWidth(sheet, "D", "D", 40)
	f.SetColWidth(sheet, "F", "H", 14)
	return f, nil
}

// Filename is the download name of a quote export.
func Filename() string {
	return "ponude.xlsx"
}
