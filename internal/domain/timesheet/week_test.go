package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMondayOfWeek(t *testing.T) {
	tests := []struct {
		name   string
		in     time.Time
		offset int
		want   time.Time
	}{
		{"monday maps to itself", date(2025, time.August, 4), 0, date(2025, time.August, 4)},
		{"friday maps back to monday", date(2025, time.August, 8), 0, date(2025, time.August, 4)},
		{"sunday belongs to the preceding monday", date(2025, time.August, 10), 0, date(2025, time.August, 4)},
		{"one week back from a friday", date(2025, time.August, 8), -1, date(2025, time.July, 28)},
		{"two weeks forward", date(2025, time.August, 4), 2, date(2025, time.August, 18)},
		{"across a year boundary", date(2021, time.January, 1), 0, date(2020, time.December, 28)},
		{"ignores time of day", time.Date(2025, time.August, 8, 23, 45, 0, 0, time.UTC), 0, date(2025, time.August, 4)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MondayOfWeek(tc.in, tc.offset)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestMondayOfWeekIdempotent(t *testing.T) {
	// Walk a year and a half of days, crossing two year boundaries.
	d := date(2024, time.June, 1)
	for i := 0; i < 550; i++ {
		monday := MondayOfWeek(d, 0)
		require.Equal(t, time.Monday, monday.Weekday(), "date %s", d)
		require.True(t, monday.Equal(MondayOfWeek(monday, 0)), "date %s", d)
		require.False(t, monday.After(d), "date %s", d)
		d = d.AddDate(0, 0, 1)
	}
}

func TestISOWeekOfBoundaries(t *testing.T) {
	tests := []struct {
		in       time.Time
		wantYear int
		wantWeek int
	}{
		// Dec 30 2024 is the Monday of the week containing Jan 2 2025's Thursday.
		{date(2024, time.December, 30), 2025, 1},
		// Jan 1 2021 is a Friday in the last week of ISO 2020.
		{date(2021, time.January, 1), 2020, 53},
		{date(2025, time.August, 4), 2025, 32},
		{date(2026, time.January, 1), 2026, 1},
	}
	for _, tc := range tests {
		year, week := ISOWeekOf(tc.in)
		assert.Equal(t, tc.wantYear, year, "iso year of %s", tc.in)
		assert.Equal(t, tc.wantWeek, week, "iso week of %s", tc.in)
	}
}

func TestISOWeekNumberRange(t *testing.T) {
	d := date(2020, time.January, 1)
	for i := 0; i < 3*366; i++ {
		_, week := ISOWeekOf(MondayOfWeek(d, 0))
		require.GreaterOrEqual(t, week, 1, "date %s", d)
		require.LessOrEqual(t, week, 53, "date %s", d)
		d = d.AddDate(0, 0, 1)
	}
}

func TestAlignWeek(t *testing.T) {
	a := AlignWeek(date(2025, time.August, 8), 0)
	assert.True(t, date(2025, time.August, 4).Equal(a.WeekStart))
	assert.True(t, date(2025, time.August, 10).Equal(a.WeekEnd))
	assert.Equal(t, 2025, a.ISOYear)
	assert.Equal(t, 32, a.ISOWeek)

	// Week end is always start+6 and the iso fields always match the start.
	d := date(2024, time.December, 1)
	for i := 0; i < 90; i++ {
		a := AlignWeek(d, 0)
		wantYear, wantWeek := a.WeekStart.ISOWeek()
		require.True(t, a.WeekStart.AddDate(0, 0, 6).Equal(a.WeekEnd))
		require.Equal(t, wantYear, a.ISOYear)
		require.Equal(t, wantWeek, a.ISOWeek)
		d = d.AddDate(0, 0, 1)
	}
}

func TestValidateWeekStart(t *testing.T) {
	assert.NoError(t, ValidateWeekStart(date(2025, time.August, 4)))
	assert.ErrorIs(t, ValidateWeekStart(date(2025, time.August, 8)), ErrInvalidWeekStart)
	assert.ErrorIs(t, ValidateWeekStart(date(2025, time.August, 10)), ErrInvalidWeekStart)
}
