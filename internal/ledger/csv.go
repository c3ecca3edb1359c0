package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/assets"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

// Headers of the ledger files.
const (
	IncomeHeader  = "date,net,tax,gross,tax_rate,category,client,description,payment_method,invoice_number"
	ExpenseHeader = "date,net,tax,gross,tax_rate,category,vendor,description,payment_method,receipt_path"
	AssetHeader   = "name,acquired,cost,useful_life_years"
)

// Incomes and expenses share the first six and the last four column slots.
const (
	numEntryFields = 10
	colDate        = 0
	colNet         = 1
	colTax         = 2
	colGross       = 3
	colRate        = 4
	colCategory    = 5
	colParty       = 6
	colDesc        = 7
	colMethod      = 8
	colRef         = 9
)

const (
	numAssetFields = 4
	colAssetName   = 0
	colAcquired    = 1
	colCost        = 2
	colLife        = 3
)

// ReadIncomes reads incomes.csv rows after the header.
func ReadIncomes(r io.Reader) ([]model.Income, error) {
	return readRows(r, numEntryFields, UnmarshalIncome)
}

// ReadExpenses reads expenses.csv rows after the header.
func ReadExpenses(r io.Reader) ([]model.Expense, error) {
	return readRows(r, numEntryFields, UnmarshalExpense)
}

// ReadAssets reads assets.csv rows after the header.
func ReadAssets(r io.Reader) ([]assets.Asset, error) {
	return readRows(r, numAssetFields, UnmarshalAsset)
}

// WriteIncomes writes incomes including the header.
func WriteIncomes(w io.Writer, incomes []model.Income) error {
	return writeRows(w, IncomeHeader, incomes, MarshalIncome)
}

// WriteExpenses writes expenses including the header.
func WriteExpenses(w io.Writer, expenses []model.Expense) error {
	return writeRows(w, ExpenseHeader, expenses, MarshalExpense)
}

// WriteAssets writes assets including the header.
func WriteAssets(w io.Writer, list []assets.Asset) error {
	return writeRows(w, AssetHeader, list, MarshalAsset)
}

func readRows[T any](r io.Reader, fields int, unmarshal func([]string) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	out := make([]T, 0, len(records)-1)
	for i, rec := range records[1:] {
		v, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeRows[T any](w io.Writer, header string, rows []T, marshal func(T) []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(marshal(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalIncome converts an Income to a CSV row.
func MarshalIncome(inc model.Income) []string {
	row := marshalEntry(inc.Date, inc.Amounts, inc.Rate, inc.Category, inc.Description, inc.PaymentMethod)
	row[colParty] = inc.Client.OrElse("")
	row[colRef] = inc.InvoiceNumber.OrElse("")
	return row
}

// MarshalExpense converts an Expense to a CSV row.
func MarshalExpense(exp model.Expense) []string {
	row := marshalEntry(exp.Date, exp.Amounts, exp.Rate, exp.Category, exp.Description, exp.PaymentMethod)
	row[colParty] = exp.Vendor.OrElse("")
	row[colRef] = exp.ReceiptPath.OrElse("")
	return row
}

func marshalEntry(date time.Time, a model.Amounts, rate model.TaxRate, category, desc string, method model.Optional[model.PaymentMethod]) []string {
	row := make([]string, numEntryFields)
	row[colDate] = date.Format(period.DateFormat)
	row[colNet] = a.Net.StringFixed(2)
	row[colTax] = a.Tax.StringFixed(2)
	row[colGross] = a.Gross.StringFixed(2)
	row[colRate] = strconv.Itoa(int(rate))
	row[colCategory] = category
	row[colDesc] = desc
	if m, ok := method.Get(); ok {
		row[colMethod] = string(m)
	}
	return row
}

// UnmarshalIncome converts a CSV row to an Income.
func UnmarshalIncome(record []string) (model.Income, error) {
	e, err := unmarshalEntry(record)
	if err != nil {
		return model.Income{}, err
	}
	return model.Income{
		Date:          e.date,
		Amounts:       e.amounts,
		Rate:          e.rate,
		Category:      e.category,
		Client:        model.NonEmpty(record[colParty]),
		Description:   e.desc,
		PaymentMethod: e.method,
		InvoiceNumber: model.NonEmpty(record[colRef]),
	}, nil
}

// UnmarshalExpense converts a CSV row to an Expense. Revenue categories are
// rejected.
func UnmarshalExpense(record []string) (model.Expense, error) {
	e, err := unmarshalEntry(record)
	if err != nil {
		return model.Expense{}, err
	}
	if accounts.IsIncomeCategory(e.category) {
		return model.Expense{}, fmt.Errorf("category %q is a revenue category", e.category)
	}
	return model.Expense{
		Date:          e.date,
		Amounts:       e.amounts,
		Rate:          e.rate,
		Category:      e.category,
		Vendor:        model.NonEmpty(record[colParty]),
		Description:   e.desc,
		PaymentMethod: e.method,
		ReceiptPath:   model.NonEmpty(record[colRef]),
	}, nil
}

type entryFields struct {
	date     time.Time
	amounts  model.Amounts
	rate     model.TaxRate
	category string
	desc     string
	method   model.Optional[model.PaymentMethod]
}

// unmarshalEntry parses the shared columns. Empty tax and gross are derived
// from net and rate; given values must agree with them.
func unmarshalEntry(record []string) (entryFields, error) {
	if len(record) != numEntryFields {
		return entryFields{}, fmt.Errorf("expected %d fields, got %d", numEntryFields, len(record))
	}

	date, err := time.Parse(period.DateFormat, record[colDate])
	if err != nil {
		return entryFields{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	rate, err := model.ParseTaxRate(record[colRate])
	if err != nil {
		return entryFields{}, err
	}

	net, err := parseAmount("net", record[colNet])
	if err != nil {
		return entryFields{}, err
	}
	amounts := model.ComputeAmounts(net, rate)

	if record[colTax] != "" {
		if amounts.Tax, err = parseAmount("tax", record[colTax]); err != nil {
			return entryFields{}, err
		}
	}
	if record[colGross] != "" {
		if amounts.Gross, err = parseAmount("gross", record[colGross]); err != nil {
			return entryFields{}, err
		}
	}
	if err := amounts.Check(rate); err != nil {
		return entryFields{}, err
	}

	category := strings.TrimSpace(record[colCategory])
	if category == "" {
		return entryFields{}, errors.New("category is required")
	}

	method := model.None[model.PaymentMethod]()
	if s := record[colMethod]; s != "" {
		m, err := model.ParsePaymentMethod(s)
		if err != nil {
			return entryFields{}, err
		}
		method = model.Some(m)
	}

	return entryFields{
		date:     date,
		amounts:  amounts,
		rate:     rate,
		category: category,
		desc:     record[colDesc],
		method:   method,
	}, nil
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing %s %q: %w", name, s, err)
	}
	return d, nil
}

// MarshalAsset converts an Asset to a CSV row.
func MarshalAsset(a assets.Asset) []string {
	row := make([]string, numAssetFields)
	row[colAssetName] = a.Name
	row[colAcquired] = a.Acquired.Format(period.DateFormat)
	row[colCost] = a.Cost.StringFixed(2)
	row[colLife] = strconv.Itoa(a.UsefulLifeYears)
	return row
}

// UnmarshalAsset converts a CSV row to an Asset.
func UnmarshalAsset(record []string) (assets.Asset, error) {
	if len(record) != numAssetFields {
		return assets.Asset{}, fmt.Errorf("expected %d fields, got %d", numAssetFields, len(record))
	}

	acquired, err := time.Parse(period.DateFormat, record[colAcquired])
	if err != nil {
		return assets.Asset{}, fmt.Errorf("parsing acquired %q: %w", record[colAcquired], err)
	}
	cost, err := parseAmount("cost", record[colCost])
	if err != nil {
		return assets.Asset{}, err
	}

	var life int
	if record[colLife] != "" {
		life, err = strconv.Atoi(record[colLife])
		if err != nil {
			return assets.Asset{}, fmt.Errorf("parsing useful_life_years %q: %w", record[colLife], err)
		}
	}

	a := assets.Asset{Name: record[colAssetName], Acquired: acquired, Cost: cost, UsefulLifeYears: life}
	if err := a.Validate(); err != nil {
		return assets.Asset{}, err
	}
	return a, nil
}
