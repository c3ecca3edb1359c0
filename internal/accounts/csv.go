package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kontor-dev/kontor/internal/model"
)

const (
	numFields = 6
	colNumber = 0
	colName   = 1
	colCat    = 2
	colRate   = 3
	colLine   = 4
	colType   = 5
)

// Row is one account of a chart listing.
type Row struct {
	Number   int
	Name     string
	Category string
	Rate     model.Optional[model.TaxRate]
	Line     int
	Income   bool
}

// Rows projects the category table onto variant v.
func Rows(v Variant) []Row {
	rows := make([]Row, len(table))
	for i, m := range table {
		rows[i] = Row{
			Number:   m.Account(v),
			Name:     m.Name,
			Category: m.Category,
			Rate:     m.Rate,
			Line:     m.Line,
			Income:   m.Income,
		}
	}
	return rows
}

// WriteChart writes the table for variant v as CSV.
func WriteChart(w io.Writer, v Variant) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"account", "name", "category", "tax_rate", "euer_line", "type"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range Rows(v) {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadChart reads a chart listing written by WriteChart.
func ReadChart(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalRow converts a Row to a CSV record.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[colNumber] = strconv.Itoa(row.Number)
	rec[colName] = row.Name
	rec[colCat] = row.Category
	if r, ok := row.Rate.Get(); ok {
		rec[colRate] = strconv.Itoa(int(r))
	}
	rec[colLine] = strconv.Itoa(row.Line)
	rec[colType] = "expense"
	if row.Income {
		rec[colType] = "income"
	}
	return rec
}

// UnmarshalRow converts a CSV record to a Row.
func UnmarshalRow(record []string) (Row, error) {
	if len(record) != numFields {
		return Row{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	number, err := strconv.Atoi(record[colNumber])
	if err != nil {
		return Row{}, fmt.Errorf("parsing account %q: %w", record[colNumber], err)
	}

	line, err := strconv.Atoi(record[colLine])
	if err != nil {
		return Row{}, fmt.Errorf("parsing euer_line %q: %w", record[colLine], err)
	}

	var rate model.Optional[model.TaxRate]
	if record[colRate] != "" {
		r, err := model.ParseTaxRate(record[colRate])
		if err != nil {
			return Row{}, err
		}
		rate = model.Some(r)
	}

	return Row{
		Number:   number,
		Name:     record[colName],
		Category: record[colCat],
		Rate:     rate,
		Line:     line,
		Income:   record[colType] == "income",
	}, nil
}
