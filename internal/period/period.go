package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the full date layout used in exports and ledger files.
const DateFormat = "2006-01-02"

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a day within r.
func (r Range) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// String returns "2025-01-01..2025-03-31".
func (r Range) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}

// QuarterOf returns the quarter (1-4) containing month.
func QuarterOf(month time.Month) int {
	return (int(month)-1)/3 + 1
}

// FormatQuarter returns a label like "Q1 2026".
func FormatQuarter(year, quarter int) string {
	return fmt.Sprintf("Q%d %d", quarter, year)
}

// FormatMonth returns "2025-03".
func FormatMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// Month returns the range of one calendar month.
func Month(year, month int) Range {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

// Quarter returns the range of one calendar quarter.
func Quarter(year, quarter int) Range {
	start := time.Date(year, time.Month((quarter-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 3, -1)}
}

// Year returns the range of one calendar year.
func Year(year int) Range {
	return Range{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Parse accepts "2025", "2025-Q2" or "2025-03".
func Parse(s string) (Range, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 1 {
		return Range{}, fmt.Errorf("invalid year in period %q", s)
	}
	if len(parts) == 1 {
		return Year(year), nil
	}

	sub := strings.ToUpper(parts[1])
	if strings.HasPrefix(sub, "Q") {
		q, err := strconv.Atoi(sub[1:])
		if err != nil || q < 1 || q > 4 {
			return Range{}, fmt.Errorf("invalid quarter in period %q", s)
		}
		return Quarter(year, q), nil
	}

	month, err := strconv.Atoi(sub)
	if err != nil || month < 1 || month > 12 {
		return Range{}, fmt.Errorf("invalid month in period %q", s)
	}
	return Month(year, month), nil
}

// Between builds a range from two YYYY-MM-DD dates. Both dates must fall
// in the same calendar year.
func Between(from, to string) (Range, error) {
	start, err := time.Parse(DateFormat, from)
	if err != nil {
		return Range{}, fmt.Errorf("parsing start date %q: %w", from, err)
	}
	end, err := time.Parse(DateFormat, to)
	if err != nil {
		return Range{}, fmt.Errorf("parsing end date %q: %w", to, err)
	}
	if end.Before(start) {
		return Range{}, fmt.Errorf("end date %s before start date %s", to, from)
	}
	if start.Year() != end.Year() {
		return Range{}, fmt.Errorf("range %s..%s spans more than one calendar year", from, to)
	}
	return Range{Start: start, End: end}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
