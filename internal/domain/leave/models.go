package leave

import "time"

type LeaveType struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	AnnualQuota     float64   `json:"annualQuota"`
	AccrualPerMonth float64   `json:"accrualPerMonth"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Balance struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	LeaveTypeID string    `json:"leaveTypeId"`
	Year        int       `json:"year"`
	Balance     float64   `json:"balance"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Request struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	LeaveTypeID  string     `json:"leaveTypeId"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	StartHalf    bool       `json:"startHalf"`
	EndHalf      bool       `json:"endHalf"`
	Days         float64    `json:"days"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	DecidedBy    string     `json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `json:"decidedAt,omitempty"`
	DecisionNote string     `json:"decisionNote,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)
