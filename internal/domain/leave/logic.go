package leave

import "time"

// CalculateDays returns the inclusive day count between start and end.
func CalculateDays(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, ErrInvalidDateRange
	}
	return end.Sub(start).Hours()/24 + 1, nil
}

// CalculateRequestDays returns the inclusive leave day count with optional
// half-day start/end boundaries.
func CalculateRequestDays(start, end time.Time, startHalf, endHalf bool) (float64, error) {
	days, err := CalculateDays(start, end)
	if err != nil {
		return 0, err
	}

	if start.Equal(end) && startHalf && endHalf {
		return 0, ErrInvalidHalfDayRange
	}

	if startHalf {
		days -= 0.5
	}
	if endHalf {
		days -= 0.5
	}
	if days <= 0 {
		return 0, ErrInvalidHalfDayRange
	}
	return days, nil
}
