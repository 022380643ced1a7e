package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
)

const (
	PermEmployeesRead    = "employees.read"
	PermEmployeesWrite   = "employees.write"
	PermTimesheetsRead   = "timesheets.read"
	PermTimesheetsWrite  = "timesheets.write"
	PermTimesheetsReview = "timesheets.review"
	PermLeaveRead        = "leave.read"
	PermLeaveWrite       = "leave.write"
	PermLeaveApprove     = "leave.approve"
	PermPayrollRead      = "payroll.read"
	PermPayrollWrite     = "payroll.write"
	PermPayrollRun       = "payroll.run"
	PermPayrollFinalize  = "payroll.finalize"
	PermReportsRead      = "reports.read"
	PermAuditRead        = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermEmployeesRead,
		PermTimesheetsRead,
		PermTimesheetsWrite,
		PermLeaveRead,
		PermLeaveWrite,
		PermPayrollRead,
	},
	RoleManager: {
		PermEmployeesRead,
		PermTimesheetsRead,
		PermTimesheetsWrite,
		PermTimesheetsReview,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermReportsRead,
	},
	RoleHR: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermTimesheetsRead,
		PermTimesheetsWrite,
		PermTimesheetsReview,
		PermLeaveRead,
		PermLeaveWrite,
		PermLeaveApprove,
		PermPayrollRead,
		PermPayrollWrite,
		PermPayrollRun,
		PermPayrollFinalize,
		PermReportsRead,
		PermAuditRead,
	},
}

// HasPermission checks the static role -> permission table. Roles are few and
// fixed; there is no per-tenant permission store.
func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
