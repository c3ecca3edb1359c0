package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kontor-dev/kontor/internal/accounts"
	"github.com/kontor-dev/kontor/internal/model"
)

// UnknownVendor groups expenses that carry no vendor.
const UnknownVendor = "Unknown"

var hundred = decimal.NewFromInt(100)

// MonthlyAggregate holds the totals of one calendar month. Amounts are net.
type MonthlyAggregate struct {
	Year         int
	Month        int
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Profit       decimal.Decimal
	TaxCollected decimal.Decimal
	TaxPaid      decimal.Decimal
	Transactions int
}

// QuarterlyAggregate sums three consecutive months.
type QuarterlyAggregate struct {
	Year            int
	Quarter         int
	Income          decimal.Decimal
	Expenses        decimal.Decimal
	Profit          decimal.Decimal
	TaxCollected    decimal.Decimal
	TaxPaid         decimal.Decimal
	NetTaxLiability decimal.Decimal
	Transactions    int
}

// Breakdown is one category or vendor share of a total.
type Breakdown struct {
	Key        string
	Amount     decimal.Decimal
	Percentage float64
	Count      int
	Average    decimal.Decimal
}

// LineTotal is the expense total of one Anlage EÜR line.
type LineTotal struct {
	Line   int
	Amount decimal.Decimal
	Count  int
}

// AggregateByMonth folds entries of year into twelve monthly buckets. Months
// without entries are present with zero totals.
func AggregateByMonth(incomes []model.Income, expenses []model.Expense, year int) []MonthlyAggregate {
	months := make([]MonthlyAggregate, 12)
	for i := range months {
		months[i] = MonthlyAggregate{
			Year:         year,
			Month:        i + 1,
			Income:       decimal.Zero,
			Expenses:     decimal.Zero,
			TaxCollected: decimal.Zero,
			TaxPaid:      decimal.Zero,
		}
	}

	foldMonths(months, incomes, year, func(m *MonthlyAggregate, a model.Amounts) {
		m.Income = m.Income.Add(a.Net)
		m.TaxCollected = m.TaxCollected.Add(a.Tax)
	})
	foldMonths(months, expenses, year, func(m *MonthlyAggregate, a model.Amounts) {
		m.Expenses = m.Expenses.Add(a.Net)
		m.TaxPaid = m.TaxPaid.Add(a.Tax)
	})

	for i := range months {
		months[i].Profit = months[i].Income.Sub(months[i].Expenses)
	}
	return months
}

// foldMonths adds the amounts of every entry dated in year to its month.
func foldMonths[E model.Entry](months []MonthlyAggregate, entries []E, year int, add func(*MonthlyAggregate, model.Amounts)) {
	for _, e := range entries {
		d := e.EntryDate()
		if d.Year() != year {
			continue
		}
		m := &months[d.Month()-1]
		add(m, e.EntryAmounts())
		m.Transactions++
	}
}

// AggregateByQuarter sums months into quarters 1-4. Months are matched by
// their Month field, so input order does not matter.
func AggregateByQuarter(months []MonthlyAggregate) []QuarterlyAggregate {
	quarters := make([]QuarterlyAggregate, 4)
	for i := range quarters {
		quarters[i] = QuarterlyAggregate{
			Quarter:      i + 1,
			Income:       decimal.Zero,
			Expenses:     decimal.Zero,
			TaxCollected: decimal.Zero,
			TaxPaid:      decimal.Zero,
		}
	}

	for _, m := range months {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		q := &quarters[(m.Month-1)/3]
		q.Year = m.Year
		q.Income = q.Income.Add(m.Income)
		q.Expenses = q.Expenses.Add(m.Expenses)
		q.TaxCollected = q.TaxCollected.Add(m.TaxCollected)
		q.TaxPaid = q.TaxPaid.Add(m.TaxPaid)
		q.Transactions += m.Transactions
	}

	for i := range quarters {
		q := &quarters[i]
		q.Profit = q.Income.Sub(q.Expenses)
		q.NetTaxLiability = q.TaxCollected.Sub(q.TaxPaid)
	}
	return quarters
}

// AggregateByCategory groups expenses by category, largest first.
func AggregateByCategory(expenses []model.Expense) []Breakdown {
	return breakdown(expenses, model.Expense.EntryCategory)
}

// AggregateByVendor groups expenses by vendor, largest first. With a limit
// only the top entries are returned.
func AggregateByVendor(expenses []model.Expense, limit model.Optional[int]) []Breakdown {
	out := breakdown(expenses, func(e model.Expense) string { return e.Vendor.OrElse(UnknownVendor) })
	if n, ok := limit.Get(); ok && n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// AggregateByFormLine totals expenses per Anlage EÜR line, ascending by line.
func AggregateByFormLine(expenses []model.Expense) []LineTotal {
	byLine := make(map[int]*LineTotal)
	for _, e := range expenses {
		line := accounts.FormLine(e.Category)
		lt, ok := byLine[line]
		if !ok {
			lt = &LineTotal{Line: line, Amount: decimal.Zero}
			byLine[line] = lt
		}
		lt.Amount = lt.Amount.Add(e.Amounts.Net)
		lt.Count++
	}

	out := make([]LineTotal, 0, len(byLine))
	for _, lt := range byLine {
		out = append(out, *lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

func breakdown[E model.Entry](entries []E, key func(E) string) []Breakdown {
	groups := make(map[string]*Breakdown)
	total := decimal.Zero
	for _, e := range entries {
		k := key(e)
		net := e.EntryAmounts().Net
		b, ok := groups[k]
		if !ok {
			b = &Breakdown{Key: k, Amount: decimal.Zero}
			groups[k] = b
		}
		b.Amount = b.Amount.Add(net)
		b.Count++
		total = total.Add(net)
	}

	out := make([]Breakdown, 0, len(groups))
	for _, b := range groups {
		if !total.IsZero() {
			b.Percentage = b.Amount.Mul(hundred).Div(total).InexactFloat64()
		}
		b.Average = b.Amount.Div(decimal.NewFromInt(int64(b.Count))).Round(2)
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}
