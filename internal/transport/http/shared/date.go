package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the calendar date at
// midnight UTC. Timesheet and payroll math work on dates, never timestamps.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
