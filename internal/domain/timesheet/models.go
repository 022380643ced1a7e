package timesheet

import "time"

type TimeEntry struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	EntryDate   time.Time `json:"entryDate"`
	ProjectCode string    `json:"projectCode,omitempty"`
	Hours       float64   `json:"hours"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Timesheet is one employee-week. Week identity fields are filled from
// AlignWeek when the row is created and are read-only afterwards.
type Timesheet struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	WeekStart    time.Time  `json:"weekStart"`
	WeekEnd      time.Time  `json:"weekEnd"`
	ISOYear      int        `json:"isoYear"`
	ISOWeek      int        `json:"isoWeek"`
	Status       string     `json:"status"`
	TotalHours   float64    `json:"totalHours"`
	SubmittedAt  *time.Time `json:"submittedAt,omitempty"`
	DecidedBy    string     `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	DecisionNote string     `json:"decisionNote,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// AttendanceSummary is what payroll derives from approved timesheets for a
// pay period: days with logged time and hours beyond the standard day.
type AttendanceSummary struct {
	PresentDays   int
	OvertimeHours float64
}

// StandardDailyHours is the threshold above which a day's logged time counts
// as overtime.
const StandardDailyHours = 8.0
