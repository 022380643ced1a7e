package payroll

const (
	PeriodStatusDraft     = "draft"
	PeriodStatusReviewed  = "reviewed"
	PeriodStatusFinalized = "finalized"

	WarningNegativeNet      = "negative_net"
	WarningMissingStructure = "missing_salary_structure"
	WarningCalcFailed       = "calculation_failed"

	CalcTypeFixed   = "fixed"
	CalcTypePercent = "percent"

	// Percentage deductions declare which base they are computed against.
	// percent-of-basic uses the structure's nominal basic salary, not the
	// attendance-prorated basic line.
	DeductionBaseBasic = "basic"
	DeductionBaseGross = "gross"

	EarningBasic    = "basic"
	EarningOvertime = "overtime"
)
