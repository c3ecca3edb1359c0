// Package assets computes linear depreciation (AfA) schedules and turns them
// into yearly depreciation postings.
package assets

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kontor-dev/kontor/internal/model"
)

// GWGLimit is the highest net cost written off in the acquisition year.
var GWGLimit = decimal.NewFromInt(800)

var twelve = decimal.NewFromInt(12)

// Asset is a depreciable purchase.
type Asset struct {
	Name            string
	Acquired        time.Time
	Cost            decimal.Decimal // net
	UsefulLifeYears int
}

// YearAmount is the depreciation of one calendar year.
type YearAmount struct {
	Year   int
	Amount decimal.Decimal
}

// IsGWG reports whether the asset is a low-value asset.
func (a Asset) IsGWG() bool {
	return a.Cost.LessThanOrEqual(GWGLimit)
}

// Validate checks the fields Schedule depends on.
func (a Asset) Validate() error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if a.Acquired.IsZero() {
		errs = append(errs, errors.New("acquisition date is required"))
	}
	if !a.Cost.IsPositive() {
		errs = append(errs, fmt.Errorf("cost must be positive, got %s", a.Cost))
	}
	if !a.IsGWG() && a.UsefulLifeYears < 1 {
		errs = append(errs, fmt.Errorf("useful life must be at least one year, got %d", a.UsefulLifeYears))
	}
	return errors.Join(errs...)
}

// Schedule returns the yearly depreciation of a. The acquisition year is
// prorated by month, counting the month of acquisition, and the final year
// takes the remainder so the amounts sum to the cost.
func Schedule(a Asset) ([]YearAmount, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("asset %q: %w", a.Name, err)
	}

	year := a.Acquired.Year()
	if a.IsGWG() {
		return []YearAmount{{Year: year, Amount: a.Cost.Round(2)}}, nil
	}

	annual := a.Cost.Div(decimal.NewFromInt(int64(a.UsefulLifeYears)))
	firstMonths := 13 - int(a.Acquired.Month())
	years := a.UsefulLifeYears
	if firstMonths < 12 {
		years++
	}

	out := make([]YearAmount, 0, years)
	remaining := a.Cost.Round(2)
	for i := 0; i < years; i++ {
		var amount decimal.Decimal
		switch {
		case i == years-1:
			amount = remaining
		case i == 0:
			amount = annual.Mul(decimal.NewFromInt(int64(firstMonths))).Div(twelve).Round(2)
		default:
			amount = annual.Round(2)
		}
		out = append(out, YearAmount{Year: year + i, Amount: amount})
		remaining = remaining.Sub(amount)
	}
	return out, nil
}

// PostingsForYear returns one depreciation posting per asset with an amount
// in year, dated December 31, ordered by asset name.
func PostingsForYear(list []Asset, year int) ([]model.Depreciation, error) {
	var out []model.Depreciation
	for _, a := range list {
		sched, err := Schedule(a)
		if err != nil {
			return nil, err
		}
		for _, ya := range sched {
			if ya.Year != year || ya.Amount.IsZero() {
				continue
			}
			out = append(out, model.Depreciation{
				Date:      time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
				AssetName: a.Name,
				Amount:    ya.Amount,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AssetName < out[j].AssetName })
	return out, nil
}
