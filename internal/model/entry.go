package model

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TaxRate is a German VAT rate in percent.
type TaxRate int

const (
	RateZero     TaxRate = 0
	RateReduced  TaxRate = 7
	RateStandard TaxRate = 19
)

// Valid reports whether r is one of the three permitted rates.
func (r TaxRate) Valid() bool {
	switch r {
	case RateZero, RateReduced, RateStandard:
		return true
	}
	return false
}

// Fraction returns the rate as a decimal fraction (19 -> 0.19).
func (r TaxRate) Fraction() decimal.Decimal {
	return decimal.New(int64(r), -2)
}

// ParseTaxRate parses "0", "7" or "19".
func ParseTaxRate(s string) (TaxRate, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing tax rate %q: %w", s, err)
	}
	r := TaxRate(n)
	if !r.Valid() {
		return 0, fmt.Errorf("unsupported tax rate %d", n)
	}
	return r, nil
}

// PaymentMethod identifies how money moved. Unspecified is None.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentPayPal       PaymentMethod = "paypal"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// ParsePaymentMethod parses one of the known payment methods.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentCash, PaymentPayPal, PaymentCard, PaymentBankTransfer:
		return m, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// Amounts are the net, tax and gross values of one entry.
type Amounts struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
}

// ComputeAmounts derives tax = round2(net * rate) and gross = net + tax.
func ComputeAmounts(net decimal.Decimal, rate TaxRate) Amounts {
	tax := net.Mul(rate.Fraction()).Round(2)
	return Amounts{Net: net, Tax: tax, Gross: net.Add(tax)}
}

// Check verifies the amount invariants for rate.
func (a Amounts) Check(rate TaxRate) error {
	if !rate.Valid() {
		return fmt.Errorf("unsupported tax rate %d", rate)
	}
	if a.Net.IsNegative() || a.Tax.IsNegative() || a.Gross.IsNegative() {
		return fmt.Errorf("negative amount (net %s, tax %s, gross %s)", a.Net.StringFixed(2), a.Tax.StringFixed(2), a.Gross.StringFixed(2))
	}
	want := ComputeAmounts(a.Net, rate)
	if !a.Tax.Equal(want.Tax) {
		return fmt.Errorf("tax %s != %s for net %s at %d%%", a.Tax.StringFixed(2), want.Tax.StringFixed(2), a.Net.StringFixed(2), rate)
	}
	if !a.Gross.Equal(a.Net.Add(a.Tax)) {
		return fmt.Errorf("gross %s != net %s + tax %s", a.Gross.StringFixed(2), a.Net.StringFixed(2), a.Tax.StringFixed(2))
	}
	return nil
}

// Entry is the part of a ledger entry the aggregator needs.
type Entry interface {
	EntryDate() time.Time
	EntryAmounts() Amounts
	EntryCategory() string
}

// Income is one revenue entry.
type Income struct {
	Date          time.Time
	Amounts       Amounts
	Rate          TaxRate
	Category      string
	Client        Optional[string]
	Description   string
	PaymentMethod Optional[PaymentMethod]
	InvoiceNumber Optional[string]
}

func (i Income) EntryDate() time.Time { return i.Date }
func (i Income) EntryAmounts() Amounts { return i.Amounts }
func (i Income) EntryCategory() string { return i.Category }

// Expense is one purchase entry.
type Expense struct {
	Date          time.Time
	Amounts       Amounts
	Rate          TaxRate
	Category      string
	Vendor        Optional[string]
	Description   string
	PaymentMethod Optional[PaymentMethod]
	ReceiptPath   Optional[string]
}

func (e Expense) EntryDate() time.Time { return e.Date }
func (e Expense) EntryAmounts() Amounts { return e.Amounts }
func (e Expense) EntryCategory() string { return e.Category }

// Depreciation is one year's share of an asset's cost, posted as an expense.
type Depreciation struct {
	Date      time.Time
	AssetName string
	Amount    decimal.Decimal
}

// Ledger bundles the entries of one export period.
type Ledger struct {
	Incomes      []Income
	Expenses     []Expense
	Depreciation []Depreciation
}

// Len returns the number of entries in the ledger.
func (l Ledger) Len() int {
	return len(l.Incomes) + len(l.Expenses) + len(l.Depreciation)
}
