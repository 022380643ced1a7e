package timesheet

import "time"

// WeekAlignment is the canonical week identity for a timesheet. ISOYear and
// ISOWeek are always derived from WeekStart so a stored week number can never
// drift from the date it describes.
type WeekAlignment struct {
	WeekStart time.Time `json:"weekStart"`
	WeekEnd   time.Time `json:"weekEnd"`
	ISOYear   int       `json:"isoYear"`
	ISOWeek   int       `json:"isoWeek"`
}

// DateOnly truncates a timestamp to a calendar date at midnight UTC. Week math
// works on calendar dates; wall-clock time and zone are irrelevant here.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MondayOfWeek returns the Monday of the ISO week containing date shifted by
// weeksOffset whole weeks. A Monday maps to itself.
//
// Go numbers weekdays Sunday=0..Saturday=6, so days-since-Monday is
// (weekday+6)%7. A plain weekday-1 would send Sundays to the following Monday.
func MondayOfWeek(date time.Time, weeksOffset int) time.Time {
	d := DateOnly(date).AddDate(0, 0, weeksOffset*7)
	return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
}

// ISOWeekOf returns the ISO-8601 week-numbering year and week number for a
// date. Week 1 is the week containing the year's first Thursday, so the
// returned year can differ from the calendar year around January 1.
func ISOWeekOf(date time.Time) (isoYear, week int) {
	return DateOnly(date).ISOWeek()
}

// AlignWeek computes the full week identity for the week containing date
// shifted by weeksOffset weeks.
func AlignWeek(date time.Time, weeksOffset int) WeekAlignment {
	start := MondayOfWeek(date, weeksOffset)
	isoYear, week := start.ISOWeek()
	return WeekAlignment{
		WeekStart: start,
		WeekEnd:   start.AddDate(0, 0, 6),
		ISOYear:   isoYear,
		ISOWeek:   week,
	}
}

// ValidateWeekStart rejects a caller-supplied week start that is not a Monday.
// It never snaps the date to the nearest Monday: silently moving a week start
// would change which week the submission belongs to.
func ValidateWeekStart(date time.Time) error {
	if DateOnly(date).Weekday() != time.Monday {
		return ErrInvalidWeekStart
	}
	return nil
}
