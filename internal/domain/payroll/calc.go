package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnits is the currency's minor-unit precision. Every line item is
// rounded to this precision (half-up) before summation so that gross, total
// deductions and net are exact sums of the displayed lines.
const minorUnits = 2

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(minorUnits)
}

// ComputePayslip derives a payslip from a salary structure and an attendance
// record. It is pure: all inputs are read-only and the result is freshly
// allocated, so concurrent calls are safe.
//
// Earning lines (basic and all allowances) are prorated by
// presentDays/totalWorkingDays. Overtime is hours times the hourly rate,
// not prorated, and omitted when there are no overtime hours. Percentage
// deductions against basic use the structure's nominal basic salary, not the
// prorated basic line: statutory deductions are defined against contracted
// salary, not attendance-adjusted pay.
func ComputePayslip(structure SalaryStructure, attendance AttendanceRecord, overtimeHourlyRate decimal.Decimal) (PayslipResult, error) {
	if err := validateInputs(structure, attendance, overtimeHourlyRate); err != nil {
		return PayslipResult{}, err
	}

	ratio := decimal.NewFromInt(int64(attendance.PresentDays)).
		Div(decimal.NewFromInt(int64(attendance.TotalWorkingDays)))

	earnings := map[string]decimal.Decimal{
		EarningBasic: round(structure.BasicSalary.Mul(ratio)),
	}

	for _, a := range structure.Allowances {
		switch a.CalcType {
		case CalcTypeFixed:
			earnings[a.Name] = round(a.Amount.Mul(ratio))
		case CalcTypePercent:
			earnings[a.Name] = round(structure.BasicSalary.Mul(a.Amount).Mul(ratio))
		default:
			return PayslipResult{}, fmt.Errorf("allowance %q: %w", a.Name, ErrUnknownCalcType)
		}
	}

	if attendance.OvertimeHours.IsPositive() {
		earnings[EarningOvertime] = round(attendance.OvertimeHours.Mul(overtimeHourlyRate))
	}

	gross := decimal.Zero
	for _, amount := range earnings {
		gross = gross.Add(amount)
	}

	deductions := make(map[string]decimal.Decimal, len(structure.Deductions))
	for _, d := range structure.Deductions {
		switch d.CalcType {
		case CalcTypeFixed:
			deductions[d.Name] = round(d.Amount)
		case CalcTypePercent:
			var base decimal.Decimal
			switch d.Base {
			case DeductionBaseBasic:
				base = structure.BasicSalary
			case DeductionBaseGross:
				base = gross
			default:
				return PayslipResult{}, fmt.Errorf("deduction %q: %w", d.Name, ErrUnknownDeductionBase)
			}
			deductions[d.Name] = round(base.Mul(d.Amount))
		default:
			return PayslipResult{}, fmt.Errorf("deduction %q: %w", d.Name, ErrUnknownCalcType)
		}
	}

	totalDeductions := decimal.Zero
	for _, amount := range deductions {
		totalDeductions = totalDeductions.Add(amount)
	}

	return PayslipResult{
		Earnings:        earnings,
		Deductions:      deductions,
		GrossSalary:     gross,
		TotalDeductions: totalDeductions,
		NetSalary:       gross.Sub(totalDeductions),
	}, nil
}

func validateInputs(structure SalaryStructure, attendance AttendanceRecord, overtimeHourlyRate decimal.Decimal) error {
	if structure.BasicSalary.IsNegative() || overtimeHourlyRate.IsNegative() ||
		attendance.OvertimeHours.IsNegative() ||
		attendance.PresentDays < 0 || attendance.TotalWorkingDays < 0 {
		return ErrNegativeInput
	}
	for _, a := range structure.Allowances {
		if a.Amount.IsNegative() {
			return fmt.Errorf("allowance %q: %w", a.Name, ErrNegativeInput)
		}
		if a.CalcType == CalcTypePercent && a.Amount.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("allowance %q: %w", a.Name, ErrRateOutOfRange)
		}
	}
	for _, d := range structure.Deductions {
		if d.Amount.IsNegative() {
			return fmt.Errorf("deduction %q: %w", d.Name, ErrNegativeInput)
		}
		if d.CalcType == CalcTypePercent && d.Amount.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("deduction %q: %w", d.Name, ErrRateOutOfRange)
		}
	}
	if attendance.TotalWorkingDays == 0 {
		return ErrZeroWorkingDays
	}
	if attendance.PresentDays > attendance.TotalWorkingDays {
		return ErrPresentDaysExceedTotal
	}
	return nil
}
