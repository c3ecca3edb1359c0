package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kontor-dev/kontor/internal/assets"
	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
)

const fixture = "testdata/project"

func TestStore_LoadQuarter(t *testing.T) {
	s := NewStore(fixture)

	l, err := s.Load(period.Quarter(2025, 1))
	require.NoError(t, err)

	require.Len(t, l.Incomes, 2)
	assert.Equal(t, "RE-2025-001", l.Incomes[0].InvoiceNumber.OrElse(""))
	assert.True(t, dec("35").Equal(l.Incomes[1].Amounts.Tax), "derived from net and rate")

	require.Len(t, l.Expenses, 2)
	assert.Equal(t, "Hetzner", l.Expenses[0].Vendor.OrElse(""))
	assert.Equal(t, model.Some(model.PaymentPayPal), l.Expenses[1].PaymentMethod)

	assert.Empty(t, l.Depreciation, "postings are dated December 31")
}

func TestStore_LoadYear(t *testing.T) {
	l, err := NewStore(fixture).Load(period.Year(2025))
	require.NoError(t, err)

	assert.Len(t, l.Incomes, 3)
	assert.Len(t, l.Expenses, 3)
	require.Len(t, l.Depreciation, 2)
	assert.Equal(t, "Laptop", l.Depreciation[0].AssetName)
	assert.Equal(t, "416.67", l.Depreciation[0].Amount.StringFixed(2))
	assert.Equal(t, "Office chair", l.Depreciation[1].AssetName)
	assert.Equal(t, "450.00", l.Depreciation[1].Amount.StringFixed(2))
	assert.Equal(t, 8, l.Len())
}

func TestStore_MissingFiles(t *testing.T) {
	l, err := NewStore(t.TempDir()).Load(period.Year(2025))
	require.NoError(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestStore_InitAndSave(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Init())

	for _, name := range []string{IncomesFile, ExpensesFile, AssetsFile} {
		data, err := os.ReadFile(filepath.Join(dir, Dir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), ",")
	}

	incomes := []model.Income{{
		Date:     date(2025, 6, 1),
		Amounts:  model.ComputeAmounts(dec("100"), model.RateStandard),
		Rate:     model.RateStandard,
		Category: "services",
	}}
	require.NoError(t, s.SaveIncomes(incomes))

	// Init keeps existing files.
	require.NoError(t, s.Init())
	got, err := s.Incomes()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, dec("119").Equal(got[0].Amounts.Gross))
}

func TestStore_SaveExpensesAndAssets(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Init())

	expenses := []model.Expense{{
		Date:          date(2025, 3, 12),
		Amounts:       model.ComputeAmounts(dec("49"), model.RateStandard),
		Rate:          model.RateStandard,
		Category:      "software",
		Vendor:        model.Some("JetBrains"),
		PaymentMethod: model.Some(model.PaymentPayPal),
	}}
	list := []assets.Asset{{Name: "Laptop", Acquired: date(2025, 3, 10), Cost: dec("1500"), UsefulLifeYears: 3}}
	require.NoError(t, s.SaveExpenses(expenses))
	require.NoError(t, s.SaveAssets(list))

	gotExpenses, err := s.Expenses()
	require.NoError(t, err)
	require.Len(t, gotExpenses, 1)
	assert.Equal(t, "JetBrains", gotExpenses[0].Vendor.OrElse(""))
	assert.True(t, dec("58.31").Equal(gotExpenses[0].Amounts.Gross))

	gotAssets, err := s.Assets()
	require.NoError(t, err)
	require.Len(t, gotAssets, 1)
	assert.Equal(t, "Laptop", gotAssets[0].Name)
	assert.True(t, dec("1500").Equal(gotAssets[0].Cost))

	l, err := s.Load(period.Year(2025))
	require.NoError(t, err)
	assert.Len(t, l.Expenses, 1)
	require.Len(t, l.Depreciation, 1)
	assert.Equal(t, "416.67", l.Depreciation[0].Amount.StringFixed(2))
}

func TestStore_ErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, Dir), 0o755))
	require.NoError(t, os.WriteFile(s.Path(ExpensesFile), []byte(ExpenseHeader+"\n2025-01-01,x,,,19,other,,,,\n"), 0o644))

	_, err := s.Load(period.Year(2025))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ExpensesFile)
	assert.Contains(t, err.Error(), "row 2")
}
