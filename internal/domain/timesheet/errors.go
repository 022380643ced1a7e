package timesheet

import "errors"

var (
	ErrInvalidWeekStart    = errors.New("week start must be a Monday")
	ErrTimesheetNotFound   = errors.New("timesheet not found")
	ErrEmptyWeek           = errors.New("timesheet week has no entries")
	ErrInvalidTransition   = errors.New("timesheet status transition not allowed")
	ErrEntryOutsideWeek    = errors.New("time entry date outside timesheet week")
	ErrNonPositiveHours    = errors.New("time entry hours must be positive")
	ErrDailyHoursExceeded  = errors.New("time entry hours exceed daily limit")
	ErrTimesheetLocked     = errors.New("timesheet is submitted and can no longer be edited")
)
