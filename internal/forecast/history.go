package forecast

import (
	"time"

	"github.com/kontor-dev/kontor/internal/model"
	"github.com/kontor-dev/kontor/internal/report"
)

// DefaultLookback is the number of months History considers.
const DefaultLookback = 12

// History returns the monthly aggregates of the lookback months before the
// month containing asOf, oldest first. Months without any entries are not
// data points and are left out.
func History(incomes []model.Income, expenses []model.Expense, asOf time.Time, lookback int) []report.MonthlyAggregate {
	if lookback <= 0 {
		return nil
	}

	first := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -lookback, 0)
	byYear := make(map[int][]report.MonthlyAggregate)

	var out []report.MonthlyAggregate
	for i := 0; i < lookback; i++ {
		m := first.AddDate(0, i, 0)
		months, ok := byYear[m.Year()]
		if !ok {
			months = report.AggregateByMonth(incomes, expenses, m.Year())
			byYear[m.Year()] = months
		}
		agg := months[m.Month()-1]
		if agg.Transactions > 0 {
			out = append(out, agg)
		}
	}
	return out
}
