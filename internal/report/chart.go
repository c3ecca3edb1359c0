package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Palette is cycled through by CategorySlices.
var Palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

// ChartPoint is one month of a bar/line chart.
type ChartPoint struct {
	Label            string
	Income           decimal.Decimal
	Expenses         decimal.Decimal
	Profit           decimal.Decimal
	CumulativeProfit decimal.Decimal
}

// Slice is one segment of a pie chart.
type Slice struct {
	Label      string
	Value      decimal.Decimal
	Percentage float64
	ColorIndex int
	Color      string
}

// MonthLabel returns the short English month name, "Jan" for 1.
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()[:3]
}

// MonthlyChart turns monthly aggregates into chart points with a running
// profit total in input order.
func MonthlyChart(months []MonthlyAggregate) []ChartPoint {
	points := make([]ChartPoint, 0, len(months))
	running := decimal.Zero
	for _, m := range months {
		running = running.Add(m.Profit)
		points = append(points, ChartPoint{
			Label:            MonthLabel(m.Month),
			Income:           m.Income,
			Expenses:         m.Expenses,
			Profit:           m.Profit,
			CumulativeProfit: running,
		})
	}
	return points
}

// CategorySlices assigns palette colors to breakdown entries in order.
func CategorySlices(breakdowns []Breakdown) []Slice {
	slices := make([]Slice, 0, len(breakdowns))
	for i, b := range breakdowns {
		idx := i % len(Palette)
		slices = append(slices, Slice{
			Label:      b.Key,
			Value:      b.Amount,
			Percentage: b.Percentage,
			ColorIndex: idx,
			Color:      Palette[idx],
		})
	}
	return slices
}
