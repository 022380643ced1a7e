package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDays(t *testing.T) {
	days, err := CalculateDays(date(2025, 1, 10), date(2025, 1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1.0, days)

	days, err = CalculateDays(date(2025, 1, 10), date(2025, 1, 12))
	require.NoError(t, err)
	assert.Equal(t, 3.0, days)
}

func TestCalculateDaysInvalid(t *testing.T) {
	_, err := CalculateDays(date(2025, 2, 10), date(2025, 2, 9))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCalculateRequestDays(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		startHalf bool
		endHalf   bool
		want      float64
		wantErr   error
	}{
		{"full week", date(2025, 3, 3), date(2025, 3, 7), false, false, 5, nil},
		{"half start", date(2025, 3, 3), date(2025, 3, 7), true, false, 4.5, nil},
		{"half both", date(2025, 3, 3), date(2025, 3, 7), true, true, 4, nil},
		{"single half day", date(2025, 3, 3), date(2025, 3, 3), true, false, 0.5, nil},
		{"single day both halves", date(2025, 3, 3), date(2025, 3, 3), true, true, 0, ErrInvalidHalfDayRange},
		{"reversed range", date(2025, 3, 7), date(2025, 3, 3), false, false, 0, ErrInvalidDateRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			days, err := CalculateRequestDays(tc.start, tc.end, tc.startHalf, tc.endHalf)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, days)
		})
	}
}
