package datev

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sampleIncome() model.Income {
	return model.Income{
		Date:          date(2025, 3, 7),
		Amounts:       model.ComputeAmounts(dec("1000"), model.RateStandard),
		Rate:          model.RateStandard,
		Category:      accounts.CategoryServices,
		Client:        model.Some("ACME GmbH"),
		Description:   "Consulting March",
		PaymentMethod: model.Some(model.PaymentBankTransfer),
		InvoiceNumber: model.Some("RE-2025-017"),
	}
}

func sampleExpense() model.Expense {
	return model.Expense{
		Date:          date(2025, 3, 12),
		Amounts:       model.ComputeAmounts(dec("20"), model.RateStandard),
		Rate:          model.RateStandard,
		Category:      accounts.CategoryHosting,
		Vendor:        model.Some("Hetzner"),
		Description:   "Cloud server",
		PaymentMethod: model.Some(model.PaymentCard),
		ReceiptPath:   model.Some("receipts/2025/03/hetzner-R0042.pdf"),
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 70)
	got := Truncate(long)
	assert.Equal(t, 60, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("a", 57)+"...", got)

	exact := strings.Repeat("b", 60)
	assert.Equal(t, exact, Truncate(exact))

	umlauts := strings.Repeat("ä", 60)
	assert.Equal(t, umlauts, Truncate(umlauts), "60 multibyte runes pass through")

	longUmlauts := strings.Repeat("ü", 61)
	cut := Truncate(longUmlauts)
	assert.Equal(t, 60, utf8.RuneCountInString(cut))
	assert.True(t, utf8.ValidString(cut))

	assert.Equal(t, "", Truncate(""))
}

func TestReceiptID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"receipts/2025/03/hetzner-R0042.pdf", "hetzner-R0042"},
		{"beleg.jpg", "beleg"},
		{`C:\belege\scan.001.png`, "scan.001"},
		{"no-extension", "no-extension"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReceiptID(tt.in), "ReceiptID(%q)", tt.in)
	}
}

func TestFromIncome(t *testing.T) {
	r := FromIncome(sampleIncome(), accounts.SKR03)

	assert.Equal(t, Credit, r.DebitCredit)
	assert.Equal(t, "1190.00", r.Amount.StringFixed(2))
	assert.True(t, r.BaseAmount.Equal(r.Amount))
	assert.Equal(t, Currency, r.Currency)
	assert.Equal(t, 8400, r.Account)
	assert.Equal(t, 1200, r.CounterAccount)
	assert.Equal(t, accounts.TaxCodeStandard, r.TaxCode)
	assert.Equal(t, "0703", r.DocumentDate)
	assert.Equal(t, "RE-2025-017", r.DocumentRef1)
	assert.Equal(t, "Consulting March", r.Description)
	assert.Empty(t, Validate(r))
}

func TestFromIncome_ReducedRateSKR04(t *testing.T) {
	inc := sampleIncome()
	inc.Rate = model.RateReduced
	inc.Amounts = model.ComputeAmounts(dec("100"), model.RateReduced)
	inc.InvoiceNumber = model.None[string]()
	inc.PaymentMethod = model.None[model.PaymentMethod]()

	r := FromIncome(inc, accounts.SKR04)
	assert.Equal(t, 4300, r.Account)
	assert.Equal(t, 1800, r.CounterAccount)
	assert.Equal(t, accounts.TaxCodeReduced, r.TaxCode)
	assert.Equal(t, "107.00", r.Amount.StringFixed(2))
	assert.Empty(t, r.DocumentRef1)
}

func TestFromExpense(t *testing.T) {
	r := FromExpense(sampleExpense(), accounts.SKR03)

	assert.Equal(t, Debit, r.DebitCredit)
	assert.Equal(t, "23.80", r.Amount.StringFixed(2))
	assert.Equal(t, 4925, r.Account)
	assert.Equal(t, 1361, r.CounterAccount)
	assert.Equal(t, accounts.TaxCodeStandard, r.TaxCode)
	assert.Equal(t, "1203", r.DocumentDate)
	assert.Equal(t, "hetzner-R0042", r.DocumentRef1)
	assert.Equal(t, "Hetzner: Cloud server", r.Description)
	assert.Empty(t, Validate(r))
}

func TestFromExpense_NoVendorNoReceipt(t *testing.T) {
	exp := sampleExpense()
	exp.Vendor = model.None[string]()
	exp.ReceiptPath = model.None[string]()
	exp.Category = "unmapped"

	r := FromExpense(exp, accounts.SKR04)
	assert.Equal(t, "Cloud server", r.Description)
	assert.Empty(t, r.DocumentRef1)
	assert.Equal(t, 6300, r.Account, "unknown categories land on other expenses")
}

func TestFromExpense_LongDescription(t *testing.T) {
	exp := sampleExpense()
	exp.Description = strings.Repeat("x", 80)

	r := FromExpense(exp, accounts.SKR03)
	assert.Equal(t, MaxDescription, utf8.RuneCountInString(r.Description))
	assert.True(t, strings.HasPrefix(r.Description, "Hetzner: "))
	assert.True(t, strings.HasSuffix(r.Description, "..."))
}

func TestFromDepreciation(t *testing.T) {
	dep := model.Depreciation{Date: date(2025, 12, 31), AssetName: "MacBook Pro", Amount: dec("833.33")}

	r := FromDepreciation(dep, accounts.SKR03)
	assert.Equal(t, Debit, r.DebitCredit)
	assert.Equal(t, 4830, r.Account)
	assert.Equal(t, 1200, r.CounterAccount)
	assert.Equal(t, accounts.TaxCodeExempt, r.TaxCode)
	assert.Equal(t, "3112", r.DocumentDate)
	assert.Equal(t, "Depreciation: MacBook Pro", r.Description)
	assert.Empty(t, Validate(r))

	r = FromDepreciation(dep, accounts.SKR04)
	assert.Equal(t, 6220, r.Account)
	assert.Equal(t, 1800, r.CounterAccount)
}

func TestBuildRecords_Order(t *testing.T) {
	late := sampleIncome()
	late.Date = date(2025, 3, 20)
	late.Description = "late"
	early := sampleIncome()
	early.Date = date(2025, 3, 1)
	early.Description = "early"

	l := model.Ledger{
		Incomes:      []model.Income{late, early},
		Expenses:     []model.Expense{sampleExpense()},
		Depreciation: []model.Depreciation{{Date: date(2025, 12, 31), AssetName: "Desk", Amount: dec("100")}},
	}

	records := BuildRecords(l, accounts.SKR03)
	require.Len(t, records, 4)
	assert.Equal(t, "early", records[0].Description)
	assert.Equal(t, "late", records[1].Description)
	assert.Equal(t, Debit, records[2].DebitCredit)
	assert.Equal(t, "Depreciation: Desk", records[3].Description)

	assert.Equal(t, "late", l.Incomes[0].Description, "input ledger is not reordered")
}

func TestRecordAccounts(t *testing.T) {
	debit, credit := Record{DebitCredit: Debit, Account: 4925, CounterAccount: 1200}.Accounts()
	assert.Equal(t, 4925, debit)
	assert.Equal(t, 1200, credit)

	debit, credit = Record{DebitCredit: Credit, Account: 8400, CounterAccount: 1200}.Accounts()
	assert.Equal(t, 1200, debit)
	assert.Equal(t, 8400, credit)
}
