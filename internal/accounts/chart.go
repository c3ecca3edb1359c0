package accounts

import (
	"fmt"
	"strings"

	"github.com/kontor-dev/kontor/internal/model"
)

// Variant is a DATEV standard chart of accounts.
type Variant string

const (
	SKR03 Variant = "SKR03"
	SKR04 Variant = "SKR04"
)

// Variants lists the supported charts.
func Variants() []Variant {
	return []Variant{SKR03, SKR04}
}

// ParseVariant accepts "skr03" or "SKR04" (case-insensitive).
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case SKR03, SKR04:
		return v, nil
	}
	return "", fmt.Errorf("unknown chart of accounts %q", s)
}

// Category keys used by ledger entries.
const (
	CategoryServices        = "services"
	CategoryServicesReduced = "services_reduced"
	CategoryServicesExempt  = "services_exempt"
	CategoryAssetSale       = "asset_sale"
	CategoryTaxRefund       = "tax_refund"

	CategorySubcontractor  = "subcontractor"
	CategorySoftware       = "software"
	CategoryTelecom        = "telecom"
	CategoryHosting        = "hosting"
	CategoryTravel         = "travel"
	CategoryInsurance      = "insurance"
	CategoryBankFees       = "bank_fees"
	CategoryTraining       = "training"
	CategoryLiterature     = "literature"
	CategoryOfficeSupplies = "office_supplies"
	CategoryHomeOffice     = "home_office"
	CategoryDepreciation   = "depreciation"
	CategoryOther          = "other"
)

// Mapping is one row of the category table. Rate is set only for rows that
// branch on the tax rate of the entry.
type Mapping struct {
	Category string
	Rate     model.Optional[model.TaxRate]
	Line     int // Anlage EÜR line
	SKR03    int
	SKR04    int
	Income   bool
	Name     string
}

// Account returns the row's account number in variant v.
func (m Mapping) Account(v Variant) int {
	if v == SKR04 {
		return m.SKR04
	}
	return m.SKR03
}

var (
	standard = model.Some(model.RateStandard)
	reduced  = model.Some(model.RateReduced)
	zero     = model.Some(model.RateZero)
)

// table is read-only after init. Both charts are projections of the same rows.
var table = []Mapping{
	{CategoryServices, standard, 15, 8400, 4400, true, "Erlöse 19 % USt"},
	{CategoryServices, reduced, 15, 8300, 4300, true, "Erlöse 7 % USt"},
	{CategoryServices, zero, 14, 8120, 4120, true, "Steuerfreie Umsätze"},
	{CategoryServicesReduced, model.None[model.TaxRate](), 15, 8300, 4300, true, "Erlöse 7 % USt"},
	{CategoryServicesExempt, model.None[model.TaxRate](), 14, 8120, 4120, true, "Steuerfreie Umsätze"},
	{CategoryAssetSale, model.None[model.TaxRate](), 19, 8820, 4845, true, "Erlöse aus Anlagenverkäufen"},
	{CategoryTaxRefund, model.None[model.TaxRate](), 17, 8900, 4900, true, "Erstattete Umsatzsteuer"},

	{CategorySubcontractor, model.None[model.TaxRate](), 27, 3100, 5900, false, "Fremdleistungen"},
	{CategorySoftware, model.None[model.TaxRate](), 60, 4806, 6495, false, "Wartung Hard- und Software"},
	{CategoryTelecom, model.None[model.TaxRate](), 60, 4920, 6805, false, "Telefon"},
	{CategoryHosting, model.None[model.TaxRate](), 60, 4925, 6810, false, "Internetkosten"},
	{CategoryTravel, model.None[model.TaxRate](), 52, 4660, 6650, false, "Reisekosten Unternehmer"},
	{CategoryInsurance, model.None[model.TaxRate](), 60, 4360, 6400, false, "Versicherungen"},
	{CategoryBankFees, model.None[model.TaxRate](), 60, 4970, 6855, false, "Nebenkosten des Geldverkehrs"},
	{CategoryTraining, model.None[model.TaxRate](), 60, 4945, 6821, false, "Fortbildungskosten"},
	{CategoryLiterature, model.None[model.TaxRate](), 60, 4940, 6820, false, "Zeitschriften, Bücher"},
	{CategoryOfficeSupplies, model.None[model.TaxRate](), 60, 4930, 6815, false, "Bürobedarf"},
	{CategoryHomeOffice, model.None[model.TaxRate](), 49, 4288, 6348, false, "Häusliches Arbeitszimmer"},
	{CategoryDepreciation, model.None[model.TaxRate](), 31, 4830, 6220, false, "Abschreibungen auf Sachanlagen"},
	{CategoryOther, model.None[model.TaxRate](), 60, 4900, 6300, false, "Sonstige betriebliche Aufwendungen"},
}

// incomeBands are half-open [lo, hi) ranges of revenue accounts.
var incomeBands = map[Variant][2]int{
	SKR03: {8000, 9000},
	SKR04: {4000, 5000},
}

// Table returns a copy of the category table.
func Table() []Mapping {
	out := make([]Mapping, len(table))
	copy(out, table)
	return out
}

// Lookup returns the row for category, honoring rate for rate-branching
// categories. Absent rate resolves like the standard rate.
func Lookup(category string, rate model.Optional[model.TaxRate]) (Mapping, bool) {
	want := rate.OrElse(model.RateStandard)
	var fallback *Mapping
	for i := range table {
		m := &table[i]
		if m.Category != category {
			continue
		}
		r, branches := m.Rate.Get()
		if !branches {
			return *m, true
		}
		if r == want {
			return *m, true
		}
		if r == model.RateStandard && fallback == nil {
			fallback = m
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Mapping{}, false
}

// MapCategoryToAccount resolves a category to an account number. Unknown
// categories resolve to the other-expenses account.
func MapCategoryToAccount(category string, v Variant, rate model.Optional[model.TaxRate]) int {
	if m, ok := Lookup(category, rate); ok {
		return m.Account(v)
	}
	other, _ := Lookup(CategoryOther, rate)
	return other.Account(v)
}

// DepreciationAccount returns the account for depreciation postings.
func DepreciationAccount(v Variant) int {
	return MapCategoryToAccount(CategoryDepreciation, v, model.None[model.TaxRate]())
}

// IsIncomeAccount reports whether number lies in the variant's revenue band.
func IsIncomeAccount(number int, v Variant) bool {
	band, ok := incomeBands[v]
	if !ok {
		return false
	}
	return number >= band[0] && number < band[1]
}

// IsIncomeCategory reports whether category is a revenue category.
func IsIncomeCategory(category string) bool {
	m, ok := Lookup(category, model.None[model.TaxRate]())
	return ok && m.Income
}

// FormLine returns the Anlage EÜR line for category, falling back to the
// other-expenses line.
func FormLine(category string) int {
	if m, ok := Lookup(category, model.None[model.TaxRate]()); ok {
		return m.Line
	}
	other, _ := Lookup(CategoryOther, model.None[model.TaxRate]())
	return other.Line
}

var counterAccounts = map[model.PaymentMethod][2]int{
	model.PaymentCash:         {1000, 1600},
	model.PaymentPayPal:       {1360, 1460},
	model.PaymentCard:         {1361, 1461},
	model.PaymentBankTransfer: {1200, 1800},
}

// CounterAccount returns the contra account for a payment method. Absent or
// unknown methods use the bank account.
func CounterAccount(v Variant, method model.Optional[model.PaymentMethod]) int {
	pm := method.OrElse(model.PaymentBankTransfer)
	pair, ok := counterAccounts[pm]
	if !ok {
		pair = counterAccounts[model.PaymentBankTransfer]
	}
	if v == SKR04 {
		return pair[1]
	}
	return pair[0]
}

// StandardCounterAccount is the bank account of variant v.
func StandardCounterAccount(v Variant) int {
	return CounterAccount(v, model.None[model.PaymentMethod]())
}
