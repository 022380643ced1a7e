package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputePayslipFullAttendance(t *testing.T) {
	structure := SalaryStructure{BasicSalary: dec("50000")}
	attendance := AttendanceRecord{TotalWorkingDays: 22, PresentDays: 22}

	result, err := ComputePayslip(structure, attendance, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, result.Earnings[EarningBasic].Equal(dec("50000")))
	assert.True(t, result.GrossSalary.Equal(dec("50000")))
	assert.True(t, result.TotalDeductions.IsZero())
	assert.True(t, result.NetSalary.Equal(dec("50000")))
	assert.False(t, result.NetNegative())
	assert.NotContains(t, result.Earnings, EarningOvertime)
}

func TestComputePayslipProrationAndNominalBasicDeduction(t *testing.T) {
	structure := SalaryStructure{
		BasicSalary: dec("50000"),
		Allowances: []AllowanceRate{
			{Name: "transportAllowance", CalcType: CalcTypeFixed, Amount: dec("2000")},
		},
		Deductions: []DeductionRate{
			{Name: "providentFund", CalcType: CalcTypePercent, Base: DeductionBaseBasic, Amount: dec("0.12")},
		},
	}
	attendance := AttendanceRecord{TotalWorkingDays: 20, PresentDays: 18}

	result, err := ComputePayslip(structure, attendance, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, result.Earnings[EarningBasic].Equal(dec("45000")), "basic: %s", result.Earnings[EarningBasic])
	assert.True(t, result.Earnings["transportAllowance"].Equal(dec("1800")))
	// Provident fund is 12% of the nominal 50000, not the prorated 45000.
	assert.True(t, result.Deductions["providentFund"].Equal(dec("6000")))
	assert.True(t, result.GrossSalary.Equal(dec("46800")))
	assert.True(t, result.NetSalary.Equal(dec("40800")))
}

func TestComputePayslipPercentAllowanceIsProrated(t *testing.T) {
	structure := SalaryStructure{
		BasicSalary: dec("40000"),
		Allowances: []AllowanceRate{
			{Name: "housingAllowance", CalcType: CalcTypePercent, Amount: dec("0.5")},
		},
	}
	attendance := AttendanceRecord{TotalWorkingDays: 20, PresentDays: 10}

	result, err := ComputePayslip(structure, attendance, decimal.Zero)
	require.NoError(t, err)

	// 40000 * 0.5 * 0.5 attendance.
	assert.True(t, result.Earnings["housingAllowance"].Equal(dec("10000")))
	assert.True(t, result.Earnings[EarningBasic].Equal(dec("20000")))
}

func TestComputePayslipOvertimeNotProrated(t *testing.T) {
	structure := SalaryStructure{BasicSalary: dec("30000")}
	attendance := AttendanceRecord{
		TotalWorkingDays: 20,
		PresentDays:      10,
		OvertimeHours:    dec("8"),
	}

	result, err := ComputePayslip(structure, attendance, dec("250"))
	require.NoError(t, err)

	// 8h * 250 regardless of the 0.5 attendance ratio.
	assert.True(t, result.Earnings[EarningOvertime].Equal(dec("2000")))
	assert.True(t, result.GrossSalary.Equal(dec("17000")))
}

func TestComputePayslipGrossDeductionBase(t *testing.T) {
	structure := SalaryStructure{
		BasicSalary: dec("20000"),
		Deductions: []DeductionRate{
			{Name: "incomeTax", CalcType: CalcTypePercent, Base: DeductionBaseGross, Amount: dec("0.1")},
			{Name: "professionalTax", CalcType: CalcTypeFixed, Base: DeductionBaseBasic, Amount: dec("200")},
		},
	}
	attendance := AttendanceRecord{TotalWorkingDays: 20, PresentDays: 20, OvertimeHours: dec("4")}

	result, err := ComputePayslip(structure, attendance, dec("125"))
	require.NoError(t, err)

	// Gross includes overtime (20000 + 500); tax is 10% of that gross.
	assert.True(t, result.GrossSalary.Equal(dec("20500")))
	assert.True(t, result.Deductions["incomeTax"].Equal(dec("2050")))
	assert.True(t, result.Deductions["professionalTax"].Equal(dec("200")))
	assert.True(t, result.NetSalary.Equal(dec("18250")))
}

func TestComputePayslipLineItemsSumExactly(t *testing.T) {
	// Awkward ratios force rounding on every line; the totals must still be
	// the exact sum of the rounded lines, not a rounded sum of raw values.
	structure := SalaryStructure{
		BasicSalary: dec("33333.33"),
		Allowances: []AllowanceRate{
			{Name: "housingAllowance", CalcType: CalcTypePercent, Amount: dec("0.333")},
			{Name: "transportAllowance", CalcType: CalcTypeFixed, Amount: dec("1234.56")},
		},
		Deductions: []DeductionRate{
			{Name: "providentFund", CalcType: CalcTypePercent, Base: DeductionBaseBasic, Amount: dec("0.12")},
			{Name: "incomeTax", CalcType: CalcTypePercent, Base: DeductionBaseGross, Amount: dec("0.0775")},
			{Name: "unionFee", CalcType: CalcTypeFixed, Base: DeductionBaseBasic, Amount: dec("99.99")},
		},
	}
	attendance := AttendanceRecord{TotalWorkingDays: 21, PresentDays: 17, OvertimeHours: dec("3.5")}

	result, err := ComputePayslip(structure, attendance, dec("123.45"))
	require.NoError(t, err)

	earningsSum := decimal.Zero
	for name, amount := range result.Earnings {
		assert.True(t, amount.Equal(amount.Round(2)), "earning %s not rounded: %s", name, amount)
		earningsSum = earningsSum.Add(amount)
	}
	deductionsSum := decimal.Zero
	for name, amount := range result.Deductions {
		assert.True(t, amount.Equal(amount.Round(2)), "deduction %s not rounded: %s", name, amount)
		deductionsSum = deductionsSum.Add(amount)
	}

	assert.True(t, earningsSum.Equal(result.GrossSalary))
	assert.True(t, deductionsSum.Equal(result.TotalDeductions))
	assert.True(t, result.GrossSalary.Sub(result.TotalDeductions).Equal(result.NetSalary))
}

func TestComputePayslipNegativeNetFlagged(t *testing.T) {
	structure := SalaryStructure{
		BasicSalary: dec("1000"),
		Deductions: []DeductionRate{
			{Name: "loanRecovery", CalcType: CalcTypeFixed, Base: DeductionBaseBasic, Amount: dec("5000")},
		},
	}
	attendance := AttendanceRecord{TotalWorkingDays: 20, PresentDays: 20}

	result, err := ComputePayslip(structure, attendance, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, result.NetNegative())
	assert.True(t, result.NetSalary.Equal(dec("-4000")))
}

func TestComputePayslipValidation(t *testing.T) {
	valid := SalaryStructure{BasicSalary: dec("50000")}

	tests := []struct {
		name       string
		structure  SalaryStructure
		attendance AttendanceRecord
		rate       decimal.Decimal
		wantErr    error
	}{
		{
			name:       "zero working days",
			structure:  valid,
			attendance: AttendanceRecord{TotalWorkingDays: 0, PresentDays: 0},
			wantErr:    ErrZeroWorkingDays,
		},
		{
			name:       "negative basic salary",
			structure:  SalaryStructure{BasicSalary: dec("-1000")},
			attendance: AttendanceRecord{TotalWorkingDays: 20, PresentDays: 20},
			wantErr:    ErrNegativeInput,
		},
		{
			name:       "present days over total",
			structure:  valid,
			attendance: AttendanceRecord{TotalWorkingDays: 20, PresentDays: 21},
			wantErr:    ErrPresentDaysExceedTotal,
		},
		{
			name: "negative allowance",
			structure: SalaryStructure{
				BasicSalary: dec("50000"),
				Allowances:  []AllowanceRate{{Name: "transportAllowance", CalcType: CalcTypeFixed, Amount: dec("-1")}},
			},
			attendance: AttendanceRecord{TotalWorkingDays: 20, PresentDays: 20},
			wantErr:    ErrNegativeInput,
		},
		{
			name: "percent rate above one",
			structure: SalaryStructure{
				BasicSalary: dec("50000"),
				Deductions:  []DeductionRate{{Name: "providentFund", CalcType: CalcTypePercent, Base: DeductionBaseBasic, Amount: dec("12")}},
			},
			attendance: AttendanceRecord{TotalWorkingDays: 20, PresentDays: 20},
			wantErr:    ErrRateOutOfRange,
		},
		{
			name:       "negative overtime hours",
			structure:  valid,
			attendance: AttendanceRecord{TotalWorkingDays: 20, PresentDays: 20, OvertimeHours: dec("-1")},
			wantErr:    ErrNegativeInput,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputePayslip(tc.structure, tc.attendance, tc.rate)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestComputePayslipUnknownComponentConfig(t *testing.T) {
	attendance := AttendanceRecord{TotalWorkingDays: 20, PresentDays: 20}

	_, err := ComputePayslip(SalaryStructure{
		BasicSalary: dec("1000"),
		Allowances:  []AllowanceRate{{Name: "mystery", CalcType: "ratio", Amount: dec("1")}},
	}, attendance, decimal.Zero)
	assert.ErrorIs(t, err, ErrUnknownCalcType)

	_, err = ComputePayslip(SalaryStructure{
		BasicSalary: dec("1000"),
		Deductions:  []DeductionRate{{Name: "tax", CalcType: CalcTypePercent, Base: "net", Amount: dec("0.1")}},
	}, attendance, decimal.Zero)
	assert.ErrorIs(t, err, ErrUnknownDeductionBase)
}
