package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/kontor-dev/kontor/internal/period"
)

// Sheet names in workbook order.
const (
	SheetMonths     = "Months"
	SheetQuarters   = "Quarters"
	SheetCategories = "Categories"
	SheetVendors    = "Vendors"
)

// Workbook is the data rendered by WriteWorkbook.
type Workbook struct {
	Months     []MonthlyAggregate
	Quarters   []QuarterlyAggregate
	Categories []Breakdown
	Vendors    []Breakdown
}

var (
	monthHeader     = []any{"Month", "Income", "Expenses", "Profit", "Tax collected", "Tax paid", "Transactions"}
	quarterHeader   = []any{"Quarter", "Income", "Expenses", "Profit", "Tax collected", "Tax paid", "Net tax liability", "Transactions"}
	breakdownHeader = []any{"Name", "Amount", "Percentage", "Count", "Average"}
)

func (m MonthlyAggregate) cellValues() []any {
	return []any{
		period.FormatMonth(m.Year, m.Month),
		m.Income.InexactFloat64(),
		m.Expenses.InexactFloat64(),
		m.Profit.InexactFloat64(),
		m.TaxCollected.InexactFloat64(),
		m.TaxPaid.InexactFloat64(),
		m.Transactions,
	}
}

func (q QuarterlyAggregate) cellValues() []any {
	return []any{
		period.FormatQuarter(q.Year, q.Quarter),
		q.Income.InexactFloat64(),
		q.Expenses.InexactFloat64(),
		q.Profit.InexactFloat64(),
		q.TaxCollected.InexactFloat64(),
		q.TaxPaid.InexactFloat64(),
		q.NetTaxLiability.InexactFloat64(),
		q.Transactions,
	}
}

func (b Breakdown) cellValues() []any {
	return []any{b.Key, b.Amount.InexactFloat64(), b.Percentage, b.Count, b.Average.InexactFloat64()}
}

// WriteWorkbook renders the aggregates as an XLSX file with one sheet per
// table.
func WriteWorkbook(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMonths); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetQuarters, SheetCategories, SheetVendors} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	months := make([][]any, 0, len(wb.Months))
	for _, m := range wb.Months {
		months = append(months, m.cellValues())
	}
	quarters := make([][]any, 0, len(wb.Quarters))
	for _, q := range wb.Quarters {
		quarters = append(quarters, q.cellValues())
	}

	if err := writeSheet(f, SheetMonths, monthHeader, months); err != nil {
		return err
	}
	if err := writeSheet(f, SheetQuarters, quarterHeader, quarters); err != nil {
		return err
	}
	if err := writeSheet(f, SheetCategories, breakdownHeader, breakdownRows(wb.Categories)); err != nil {
		return err
	}
	if err := writeSheet(f, SheetVendors, breakdownHeader, breakdownRows(wb.Vendors)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func breakdownRows(bs []Breakdown) [][]any {
	rows := make([][]any, 0, len(bs))
	for _, b := range bs {
		rows = append(rows, b.cellValues())
	}
	return rows
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
