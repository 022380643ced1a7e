package timesheet

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"

	// MaxDailyHours caps a single day's logged hours across entries.
	MaxDailyHours = 24.0
)
