package report

import "github.com/shopspring/decimal"

// Trend is the direction of a change.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// Metric names used in comparisons.
const (
	MetricIncome   = "income"
	MetricExpenses = "expenses"
	MetricProfit   = "profit"
	MetricMargin   = "margin"
)

// YearSummary holds the net totals of one year.
type YearSummary struct {
	Year     int
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Profit   decimal.Decimal
}

// Margin returns profit as a percentage of income, or zero without income.
func (y YearSummary) Margin() decimal.Decimal {
	if y.Income.IsZero() {
		return decimal.Zero
	}
	return y.Profit.Mul(hundred).Div(y.Income).Round(2)
}

// Comparison is the change of one metric between two years.
type Comparison struct {
	Metric        string
	Current       decimal.Decimal
	Previous      decimal.Decimal
	Change        decimal.Decimal
	PercentChange decimal.Decimal
	Trend         Trend
}

// SummarizeYear totals monthly aggregates.
func SummarizeYear(months []MonthlyAggregate) YearSummary {
	s := YearSummary{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, m := range months {
		s.Year = m.Year
		s.Income = s.Income.Add(m.Income)
		s.Expenses = s.Expenses.Add(m.Expenses)
	}
	s.Profit = s.Income.Sub(s.Expenses)
	return s
}

// CompareYears compares income, expenses and profit, plus the profit margin
// when either year has income.
func CompareYears(current, previous YearSummary) []Comparison {
	out := []Comparison{
		Compare(MetricIncome, current.Income, previous.Income),
		Compare(MetricExpenses, current.Expenses, previous.Expenses),
		Compare(MetricProfit, current.Profit, previous.Profit),
	}
	if !current.Income.IsZero() || !previous.Income.IsZero() {
		out = append(out, Compare(MetricMargin, current.Margin(), previous.Margin()))
	}
	return out
}

// Compare computes the change of one metric.
func Compare(metric string, current, previous decimal.Decimal) Comparison {
	change := current.Sub(previous)
	return Comparison{
		Metric:        metric,
		Current:       current,
		Previous:      previous,
		Change:        change,
		PercentChange: PercentChange(current, previous),
		Trend:         trendOf(change),
	}
}

// PercentChange returns the relative change in percent. Growth from zero
// counts as 100 %, no change from zero as 0 %.
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	switch {
	case current.IsZero() && previous.IsZero():
		return decimal.Zero
	case previous.IsZero():
		return hundred
	}
	return current.Sub(previous).Mul(hundred).Div(previous.Abs()).Round(2)
}

func trendOf(change decimal.Decimal) Trend {
	switch change.Sign() {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	}
	return TrendNeutral
}
