package datev

import (
	"path"
	"sort"
	"strings"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/model"
)

const ellipsis = "..."

// Truncate shortens s to MaxDescription runes, ending in an ellipsis when cut.
func Truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxDescription {
		return s
	}
	return string(runes[:MaxDescription-len(ellipsis)]) + ellipsis
}

// ReceiptID extracts "beleg-42" from "receipts/2025/beleg-42.pdf".
func ReceiptID(receiptPath string) string {
	base := path.Base(strings.ReplaceAll(receiptPath, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// FromIncome builds the credit record of a revenue entry.
func FromIncome(inc model.Income, v accounts.Variant) Record {
	return Record{
		Amount:         inc.Amounts.Gross,
		DebitCredit:    Credit,
		Currency:       Currency,
		BaseAmount:     inc.Amounts.Gross,
		Account:        accounts.MapCategoryToAccount(inc.Category, v, model.Some(inc.Rate)),
		CounterAccount: accounts.CounterAccount(v, inc.PaymentMethod),
		TaxCode:        accounts.RateToTaxCode(inc.Rate),
		DocumentDate:   FormatDate(inc.Date),
		DocumentRef1:   inc.InvoiceNumber.OrElse(""),
		Description:    Truncate(inc.Description),
	}
}

// FromExpense builds the debit record of a purchase entry.
func FromExpense(exp model.Expense, v accounts.Variant) Record {
	var ref string
	if p, ok := exp.ReceiptPath.Get(); ok {
		ref = ReceiptID(p)
	}

	desc := exp.Description
	if vendor, ok := exp.Vendor.Get(); ok {
		desc = vendor + ": " + exp.Description
	}

	return Record{
		Amount:         exp.Amounts.Gross,
		DebitCredit:    Debit,
		Currency:       Currency,
		BaseAmount:     exp.Amounts.Gross,
		Account:        accounts.MapCategoryToAccount(exp.Category, v, model.Some(exp.Rate)),
		CounterAccount: accounts.CounterAccount(v, exp.PaymentMethod),
		TaxCode:        accounts.RateToTaxCode(exp.Rate),
		DocumentDate:   FormatDate(exp.Date),
		DocumentRef1:   ref,
		Description:    Truncate(desc),
	}
}

// FromDepreciation builds the debit record of a depreciation posting. It
// carries no VAT.
func FromDepreciation(dep model.Depreciation, v accounts.Variant) Record {
	return Record{
		Amount:         dep.Amount,
		DebitCredit:    Debit,
		Currency:       Currency,
		BaseAmount:     dep.Amount,
		Account:        accounts.DepreciationAccount(v),
		CounterAccount: accounts.StandardCounterAccount(v),
		TaxCode:        accounts.TaxCodeExempt,
		DocumentDate:   FormatDate(dep.Date),
		Description:    Truncate("Depreciation: " + dep.AssetName),
	}
}

// BuildRecords converts a ledger into records: incomes, then expenses, then
// depreciation, each ordered by date.
func BuildRecords(l model.Ledger, v accounts.Variant) []Record {
	incomes := append([]model.Income(nil), l.Incomes...)
	sort.SliceStable(incomes, func(i, j int) bool { return incomes[i].Date.Before(incomes[j].Date) })

	expenses := append([]model.Expense(nil), l.Expenses...)
	sort.SliceStable(expenses, func(i, j int) bool { return expenses[i].Date.Before(expenses[j].Date) })

	deps := append([]model.Depreciation(nil), l.Depreciation...)
	sort.SliceStable(deps, func(i, j int) bool { return deps[i].Date.Before(deps[j].Date) })

	records := make([]Record, 0, l.Len())
	for _, inc := range incomes {
		records = append(records, FromIncome(inc, v))
	}
	for _, exp := range expenses {
		records = append(records, FromExpense(exp, v))
	}
	for _, dep := range deps {
		records = append(records, FromDepreciation(dep, v))
	}
	return records
}
