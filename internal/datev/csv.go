package datev

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Columns is the header row of the flat booking format.
var Columns = []string{
	"Umsatz (ohne Soll/Haben-Kz)",
	"Soll/Haben-Kennzeichen",
	"WKZ Umsatz",
	"Kurs",
	"Basis-Umsatz",
	"Konto",
	"Gegenkonto (ohne BU-Schlüssel)",
	"BU-Schlüssel",
	"Belegdatum",
	"Belegfeld 1",
	"Belegfeld 2",
	"Skonto",
	"Buchungstext",
	"Postensperre",
	"Diverse Adressnummer",
	"Geschäftspartnerbank",
	"Sachverhalt",
	"Zinssperre",
	"Beleglink",
	"Beleginfo - Art 1",
	"Beleginfo - Inhalt 1",
}

// Delimiter separates fields in the flat format.
const Delimiter = ';'

const (
	numFields         = 21
	dateLayout        = "0201"
	colAmount         = 0
	colDebitCredit    = 1
	colCurrency       = 2
	colExchangeRate   = 3
	colBaseAmount     = 4
	colAccount        = 5
	colCounterAccount = 6
	colTaxCode        = 7
	colDocumentDate   = 8
	colRef1           = 9
	colRef2           = 10
	colDiscount       = 11
	colDescription    = 12
	colBlockFlag      = 13
	colAddressNumber  = 14
	colPartnerBank    = 15
	colBusinessCase   = 16
	colInterestBlock  = 17
	colDocumentLink   = 18
	colInfoType       = 19
	colInfoContent    = 20
)

// FormatDecimal renders d with a decimal comma and exactly two fraction
// digits: 1234.5 -> "1234,50".
func FormatDecimal(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// ParseDecimal is the inverse of FormatDecimal.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing decimal %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders t as DDMM.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate parses a DDMM date in the current year.
func ParseDate(s string) (time.Time, error) {
	return ParseDateInYear(s, time.Now().Year())
}

// ParseDateInYear parses a DDMM date in the given year.
func ParseDateInYear(s string, year int) (time.Time, error) {
	if !validDocumentDate(s) {
		return time.Time{}, fmt.Errorf("invalid date %q: want DDMM", s)
	}
	day, _ := strconv.Atoi(s[:2])
	month, _ := strconv.Atoi(s[2:])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("invalid date %q in %d", s, year)
	}
	return t, nil
}

// WriteRecords writes the header row and one row per record.
func WriteRecords(w io.Writer, records []Record) error {
	cw := newWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecords reads rows written by WriteRecords. Dates stay in DDMM form.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading booking CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	var records []Record
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = Delimiter
	cw.UseCRLF = true
	return cw
}

// MarshalRecord converts a Record to its 21 fields. Zero-valued optional
// fields are left empty.
func MarshalRecord(r Record) []string {
	row := make([]string, numFields)
	row[colAmount] = FormatDecimal(r.Amount)
	row[colDebitCredit] = string(r.DebitCredit)
	row[colCurrency] = r.Currency
	if !r.ExchangeRate.IsZero() {
		row[colExchangeRate] = FormatDecimal(r.ExchangeRate)
	}
	if !r.BaseAmount.IsZero() {
		row[colBaseAmount] = FormatDecimal(r.BaseAmount)
	}
	row[colAccount] = strconv.Itoa(r.Account)
	row[colCounterAccount] = strconv.Itoa(r.CounterAccount)
	row[colTaxCode] = optionalInt(r.TaxCode)
	row[colDocumentDate] = r.DocumentDate
	row[colRef1] = r.DocumentRef1
	row[colRef2] = r.DocumentRef2
	if !r.Discount.IsZero() {
		row[colDiscount] = FormatDecimal(r.Discount)
	}
	row[colDescription] = r.Description
	row[colBlockFlag] = optionalInt(r.BlockFlag)
	row[colAddressNumber] = r.AddressNumber
	row[colPartnerBank] = optionalInt(r.PartnerBank)
	row[colBusinessCase] = optionalInt(r.BusinessCase)
	row[colInterestBlock] = optionalInt(r.InterestBlock)
	row[colDocumentLink] = r.DocumentLink
	row[colInfoType] = r.DocumentInfoType
	row[colInfoContent] = r.DocumentInfoContent
	return row
}

// UnmarshalRecord converts 21 fields back to a Record.
func UnmarshalRecord(row []string) (Record, error) {
	if len(row) != numFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	var r Record
	var err error

	if r.Amount, err = ParseDecimal(row[colAmount]); err != nil {
		return Record{}, err
	}
	if r.ExchangeRate, err = parseOptionalDecimal(row[colExchangeRate]); err != nil {
		return Record{}, err
	}
	if r.BaseAmount, err = parseOptionalDecimal(row[colBaseAmount]); err != nil {
		return Record{}, err
	}
	if r.Discount, err = parseOptionalDecimal(row[colDiscount]); err != nil {
		return Record{}, err
	}

	ints := []struct {
		col  int
		name string
		dst  *int
	}{
		{colAccount, "account", &r.Account},
		{colCounterAccount, "counter account", &r.CounterAccount},
		{colTaxCode, "tax code", &r.TaxCode},
		{colBlockFlag, "block flag", &r.BlockFlag},
		{colPartnerBank, "partner bank", &r.PartnerBank},
		{colBusinessCase, "business case", &r.BusinessCase},
		{colInterestBlock, "interest block", &r.InterestBlock},
	}
	for _, f := range ints {
		if row[f.col] == "" {
			continue
		}
		n, err := strconv.Atoi(row[f.col])
		if err != nil {
			return Record{}, fmt.Errorf("parsing %s %q: %w", f.name, row[f.col], err)
		}
		*f.dst = n
	}

	r.DebitCredit = DebitCredit(row[colDebitCredit])
	r.Currency = row[colCurrency]
	r.DocumentDate = row[colDocumentDate]
	r.DocumentRef1 = row[colRef1]
	r.DocumentRef2 = row[colRef2]
	r.Description = row[colDescription]
	r.AddressNumber = row[colAddressNumber]
	r.DocumentLink = row[colDocumentLink]
	r.DocumentInfoType = row[colInfoType]
	r.DocumentInfoContent = row[colInfoContent]
	return r, nil
}

func optionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return ParseDecimal(s)
}
