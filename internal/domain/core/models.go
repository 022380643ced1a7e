package core

import "time"

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId,omitempty"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	ManagerID      string     `json:"managerId,omitempty"`
	Currency       string     `json:"currency"`
	EmploymentType string     `json:"employmentType"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ManagerID string    `json:"managerId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentContract = "contract"
)
