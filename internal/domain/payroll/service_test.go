package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"full august 2025", day(2025, time.August, 1), day(2025, time.August, 31), 21},
		{"single monday", day(2025, time.August, 4), day(2025, time.August, 4), 1},
		{"weekend only", day(2025, time.August, 9), day(2025, time.August, 10), 0},
		{"one iso week", day(2025, time.August, 4), day(2025, time.August, 10), 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, weekdaysBetween(tc.from, tc.to))
		})
	}
}

func TestOvertimeHourlyRate(t *testing.T) {
	flat := &Service{defaultOvertimeRate: decimal.NewFromInt(300)}
	assert.True(t, flat.overtimeHourlyRate(decimal.NewFromInt(44000), 22).Equal(decimal.NewFromInt(300)))

	// Derived: 44000 / 22 days / 8 hours * 1.5 = 375.
	derived := &Service{defaultOvertimeRate: decimal.Zero}
	assert.True(t, derived.overtimeHourlyRate(decimal.NewFromInt(44000), 22).Equal(decimal.NewFromInt(375)))

	assert.True(t, derived.overtimeHourlyRate(decimal.NewFromInt(44000), 0).IsZero())
}
