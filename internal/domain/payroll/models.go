package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllowanceRate is one earning component of a salary structure. CalcTypeFixed
// carries a monthly amount; CalcTypePercent carries a fraction of basic salary
// in [0,1]. The calc type is fixed per component, never inferred from the value.
type AllowanceRate struct {
	Name     string          `json:"name"`
	CalcType string          `json:"calcType"`
	Amount   decimal.Decimal `json:"amount"`
}

// DeductionRate is one deduction component. Percentage deductions declare the
// base they apply to: nominal basic salary or computed gross.
type DeductionRate struct {
	Name     string          `json:"name"`
	CalcType string          `json:"calcType"`
	Base     string          `json:"base"`
	Amount   decimal.Decimal `json:"amount"`
}

type SalaryStructure struct {
	BasicSalary decimal.Decimal `json:"basicSalary"`
	Allowances  []AllowanceRate `json:"allowances"`
	Deductions  []DeductionRate `json:"deductions"`
}

type AttendanceRecord struct {
	TotalWorkingDays int             `json:"totalWorkingDays"`
	PresentDays      int             `json:"presentDays"`
	OvertimeHours    decimal.Decimal `json:"overtimeHours"`
}

// PayslipResult holds one employee's computed payslip. Gross is the exact sum
// of the rounded earning lines and TotalDeductions the exact sum of the
// rounded deduction lines, so displayed line items always add up.
type PayslipResult struct {
	Earnings        map[string]decimal.Decimal `json:"earnings"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	GrossSalary     decimal.Decimal            `json:"grossSalary"`
	TotalDeductions decimal.Decimal            `json:"totalDeductions"`
	NetSalary       decimal.Decimal            `json:"netSalary"`
}

// NetNegative reports whether deductions exceeded earnings. Not an error:
// the run records a warning so a human reviews it before anything is paid out.
func (r PayslipResult) NetNegative() bool {
	return r.NetSalary.IsNegative()
}

type Period struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Payslip struct {
	ID         string          `json:"id"`
	PeriodID   string          `json:"periodId"`
	EmployeeID string          `json:"employeeId"`
	Result     PayslipResult   `json:"result"`
	Attendance AttendanceRecord `json:"attendance"`
	Currency   string          `json:"currency"`
	FileURL    string          `json:"fileUrl,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type RunSummary struct {
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	EmployeeCount   int             `json:"employeeCount"`
	Warnings        map[string]int  `json:"warnings"`
}

type RegisterRow struct {
	EmployeeID     string          `json:"employeeId"`
	EmployeeNumber string          `json:"employeeNumber"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Gross          decimal.Decimal `json:"gross"`
	Deductions     decimal.Decimal `json:"deductions"`
	Net            decimal.Decimal `json:"net"`
	Currency       string          `json:"currency"`
}
