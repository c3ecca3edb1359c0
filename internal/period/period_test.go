package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		start time.Time
		end   time.Time
	}{
		{"2025", date(2025, 1, 1), date(2025, 12, 31)},
		{"2025-Q1", date(2025, 1, 1), date(2025, 3, 31)},
		{"2025-q4", date(2025, 10, 1), date(2025, 12, 31)},
		{"2024-02", date(2024, 2, 1), date(2024, 2, 29)},
		{"2025-11", date(2025, 11, 1), date(2025, 11, 30)},
	}
	for _, tt := range tests {
		r, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.start.Equal(r.Start), "%s start %s", tt.in, r.Start)
		assert.True(t, tt.end.Equal(r.End), "%s end %s", tt.in, r.End)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "abcd", "2025-Q5", "2025-Q", "2025-13", "2025-00"} {
		_, err := Parse(in)
		assert.Error(t, err, "Parse(%q)", in)
	}
}

func TestBetween(t *testing.T) {
	r, err := Between("2025-01-15", "2025-02-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15..2025-02-10", r.String())

	_, err = Between("2025-02-10", "2025-01-15")
	assert.ErrorContains(t, err, "before start")

	_, err = Between("15.01.2025", "2025-02-10")
	assert.ErrorContains(t, err, "parsing start date")

	_, err = Between("2024-12-01", "2025-01-31")
	assert.ErrorContains(t, err, "spans more than one calendar year")

	r, err = Between("2025-12-31", "2025-12-31")
	require.NoError(t, err)
	assert.True(t, r.Contains(date(2025, 12, 31)))
}

func TestContains(t *testing.T) {
	r := Quarter(2025, 2)
	assert.True(t, r.Contains(date(2025, 4, 1)))
	assert.True(t, r.Contains(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(date(2025, 7, 1)))
	assert.False(t, r.Contains(date(2025, 3, 31)))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Q1 2026", FormatQuarter(2026, 1))
	assert.Equal(t, "2025-03", FormatMonth(2025, 3))
	assert.Equal(t, 1, QuarterOf(time.March))
	assert.Equal(t, 2, QuarterOf(time.April))
	assert.Equal(t, 4, QuarterOf(time.December))
}
