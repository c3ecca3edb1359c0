// Package forecast projects the next quarter's VAT liability from monthly
// history using a recency-weighted average.
package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/period"
	"github.com/kontor-dev/kontor/internal/report"
)

// Confidence tiers by number of historical months.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DueDay is the day of month quarterly returns are due.
const DueDay = 10

var (
	recencyFactor = decimal.RequireFromString("1.2")
	monthsPerQtr  = decimal.NewFromInt(3)

	// FlatRate is applied to all projected income and expenses.
	FlatRate = model.RateStandard

	margins = map[Confidence]decimal.Decimal{
		ConfidenceLow:    decimal.RequireFromString("0.30"),
		ConfidenceMedium: decimal.RequireFromString("0.20"),
		ConfidenceHigh:   decimal.RequireFromString("0.10"),
	}
)

// Range brackets an estimate.
type Range struct {
	Low  decimal.Decimal
	High decimal.Decimal
}

// TaxForecast is the projection for one quarter.
type TaxForecast struct {
	Period             string
	Year               int
	Quarter            int
	ProjectedIncome    decimal.Decimal
	ProjectedExpenses  decimal.Decimal
	ProjectedOutputTax decimal.Decimal
	ProjectedInputTax  decimal.Decimal
	EstimatedZahllast  decimal.Decimal
	Confidence         Confidence
	DueDate            time.Time
	Extension          bool
	DataPoints         int
	Range              Range
}

// Options control Project. Without a Rate the standard rate applies.
type Options struct {
	AsOf      time.Time
	Extension bool
	Rate      model.Optional[model.TaxRate]
}

// Field selects the value averaged from a monthly aggregate.
type Field func(report.MonthlyAggregate) decimal.Decimal

// Income and Expenses are the fields the engine projects.
var (
	Income   Field = func(m report.MonthlyAggregate) decimal.Decimal { return m.Income }
	Expenses Field = func(m report.MonthlyAggregate) decimal.Decimal { return m.Expenses }
)

// WeightedAverage sorts history oldest first and weights the i-th entry with
// 1.2^i. Empty history averages to zero. The input is not modified.
func WeightedAverage(history []report.MonthlyAggregate, field Field) decimal.Decimal {
	if len(history) == 0 {
		return decimal.Zero
	}

	sorted := make([]report.MonthlyAggregate, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Month < sorted[j].Month
	})

	sum, weights := decimal.Zero, decimal.Zero
	w := decimal.NewFromInt(1)
	for _, m := range sorted {
		sum = sum.Add(field(m).Mul(w))
		weights = weights.Add(w)
		w = w.Mul(recencyFactor)
	}
	return sum.Div(weights)
}

// ConfidenceFor returns the tier for n months of history.
func ConfidenceFor(n int) Confidence {
	switch {
	case n < 3:
		return ConfidenceLow
	case n < 6:
		return ConfidenceMedium
	}
	return ConfidenceHigh
}

// RangeFor brackets estimate by the tier margin of its magnitude.
func RangeFor(estimate decimal.Decimal, c Confidence) Range {
	spread := estimate.Abs().Mul(margins[c]).Round(2)
	return Range{Low: estimate.Sub(spread), High: estimate.Add(spread)}
}

// DueDate returns the filing deadline of a quarter: the 10th of the month
// after the quarter ends, one month later with an extension.
func DueDate(year, quarter int, extension bool) time.Time {
	end := quarter*3 - 1 // zero-based month index
	due := end + 1
	if extension {
		due++
	}
	if due > 11 {
		due -= 12
		year++
	}
	return time.Date(year, time.Month(due+1), DueDay, 0, 0, 0, 0, time.UTC)
}

// NextQuarter returns the quarter following the one containing asOf.
func NextQuarter(asOf time.Time) (year, quarter int) {
	year, quarter = asOf.Year(), period.QuarterOf(asOf.Month())+1
	if quarter > 4 {
		return year + 1, 1
	}
	return year, quarter
}

// Project forecasts the quarter after opts.AsOf from monthly history.
func Project(history []report.MonthlyAggregate, opts Options) TaxForecast {
	year, quarter := NextQuarter(opts.AsOf)

	income := WeightedAverage(history, Income).Mul(monthsPerQtr).Round(2)
	expenses := WeightedAverage(history, Expenses).Mul(monthsPerQtr).Round(2)
	rate := opts.Rate.OrElse(FlatRate).Fraction()
	outputTax := income.Mul(rate).Round(2)
	inputTax := expenses.Mul(rate).Round(2)
	zahllast := outputTax.Sub(inputTax)
	confidence := ConfidenceFor(len(history))

	return TaxForecast{
		Period:             period.FormatQuarter(year, quarter),
		Year:               year,
		Quarter:            quarter,
		ProjectedIncome:    income,
		ProjectedExpenses:  expenses,
		ProjectedOutputTax: outputTax,
		ProjectedInputTax:  inputTax,
		EstimatedZahllast:  zahllast,
		Confidence:         confidence,
		DueDate:            DueDate(year, quarter, opts.Extension),
		Extension:          opts.Extension,
		DataPoints:         len(history),
		Range:              RangeFor(zahllast, confidence),
	}
}
