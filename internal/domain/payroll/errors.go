package payroll

import "errors"

var (
	ErrZeroWorkingDays        = errors.New("attendance total working days must be positive")
	ErrNegativeInput          = errors.New("salary amounts, rates and day counts must not be negative")
	ErrPresentDaysExceedTotal = errors.New("present days exceed total working days")
	ErrRateOutOfRange         = errors.New("percentage rate must be a fraction between 0 and 1")
	ErrUnknownCalcType        = errors.New("unknown component calc type")
	ErrUnknownDeductionBase   = errors.New("unknown deduction base")

	ErrPeriodNotFound       = errors.New("payroll period not found")
	ErrPayslipNotFound      = errors.New("payslip not found")
	ErrPeriodOverlap        = errors.New("payroll period overlaps an existing period")
	ErrFinalizeInvalidState = errors.New("payroll period must be reviewed before finalize")
	ErrFinalizeNoResults    = errors.New("payroll period has no payroll results")
	ErrPeriodFinalized      = errors.New("payroll period is finalized and cannot be changed")
)
