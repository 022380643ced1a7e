package payroll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"hrms/internal/domain/core"
	"hrms/internal/domain/timesheet"
)

// EmployeeSource is the slice of the employee domain payroll needs.
type EmployeeSource interface {
	ListEmployees(ctx context.Context, status string, limit, offset int) ([]core.Employee, error)
	GetEmployee(ctx context.Context, id string) (core.Employee, error)
}

// AttendanceSource derives per-period attendance from approved timesheets.
type AttendanceSource interface {
	AttendanceForPeriod(ctx context.Context, employeeID string, from, to time.Time) (timesheet.AttendanceSummary, error)
}

type Service struct {
	store      *Store
	employees  EmployeeSource
	attendance AttendanceSource
	payslipDir string

	// defaultOvertimeRate overrides the derived overtime rate when positive.
	defaultOvertimeRate decimal.Decimal
}

func NewService(store *Store, employees EmployeeSource, attendance AttendanceSource, payslipDir string, overtimeRate float64) *Service {
	return &Service{
		store:               store,
		employees:           employees,
		attendance:          attendance,
		payslipDir:          payslipDir,
		defaultOvertimeRate: decimal.NewFromFloat(overtimeRate),
	}
}

func (s *Service) Store() *Store {
	return s.store
}

// overtimeHourlyRate falls back to 1.5x the basic hourly rate (monthly basic
// over working days, 8 hours a day) when no flat rate is configured.
func (s *Service) overtimeHourlyRate(basic decimal.Decimal, workingDays int) decimal.Decimal {
	if s.defaultOvertimeRate.IsPositive() {
		return s.defaultOvertimeRate
	}
	if workingDays <= 0 {
		return decimal.Zero
	}
	hourly := basic.Div(decimal.NewFromInt(int64(workingDays))).Div(decimal.NewFromInt(8))
	return hourly.Mul(decimal.NewFromFloat(1.5))
}

// weekdaysBetween counts Monday..Friday days in [from, to].
func weekdaysBetween(from, to time.Time) int {
	count := 0
	for d := timesheet.DateOnly(from); !d.After(timesheet.DateOnly(to)); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

// RunPeriod computes a payslip for every active employee. The period must not
// be finalized; re-running replaces previous draft results. Employees whose
// payslip cannot be computed are skipped with a warning instead of failing
// the whole run.
func (s *Service) RunPeriod(ctx context.Context, periodID string) (RunSummary, error) {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return RunSummary{}, err
	}
	if period.Status == PeriodStatusFinalized {
		return RunSummary{}, ErrPeriodFinalized
	}

	if err := s.store.ClearPeriodResults(ctx, periodID); err != nil {
		return RunSummary{}, err
	}

	workingDays := weekdaysBetween(period.StartDate, period.EndDate)
	employees, err := s.employees.ListEmployees(ctx, core.StatusActive, 10000, 0)
	if err != nil {
		return RunSummary{}, err
	}

	for _, employee := range employees {
		structure, err := s.store.SalaryStructureFor(ctx, employee.ID)
		if errors.Is(err, ErrStructureNotFound) {
			if err := s.store.AddWarning(ctx, periodID, employee.ID, WarningMissingStructure); err != nil {
				return RunSummary{}, err
			}
			continue
		}
		if err != nil {
			return RunSummary{}, err
		}

		summary, err := s.attendance.AttendanceForPeriod(ctx, employee.ID, period.StartDate, period.EndDate)
		if err != nil {
			return RunSummary{}, err
		}
		attendance := AttendanceRecord{
			TotalWorkingDays: workingDays,
			PresentDays:      min(summary.PresentDays, workingDays),
			OvertimeHours:    decimal.NewFromFloat(summary.OvertimeHours),
		}

		result, err := ComputePayslip(structure, attendance, s.overtimeHourlyRate(structure.BasicSalary, workingDays))
		if err != nil {
			if warnErr := s.store.AddWarning(ctx, periodID, employee.ID, WarningCalcFailed); warnErr != nil {
				return RunSummary{}, warnErr
			}
			continue
		}

		if _, err := s.store.SavePayslip(ctx, Payslip{
			PeriodID:   periodID,
			EmployeeID: employee.ID,
			Result:     result,
			Attendance: attendance,
			Currency:   employee.Currency,
		}); err != nil {
			return RunSummary{}, err
		}
		if result.NetNegative() {
			if err := s.store.AddWarning(ctx, periodID, employee.ID, WarningNegativeNet); err != nil {
				return RunSummary{}, err
			}
		}
	}

	return s.store.PeriodSummary(ctx, periodID)
}

// Review moves a draft period with results to reviewed.
func (s *Service) Review(ctx context.Context, periodID string) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status != PeriodStatusDraft {
		return ErrFinalizeInvalidState
	}
	summary, err := s.store.PeriodSummary(ctx, periodID)
	if err != nil {
		return err
	}
	if summary.EmployeeCount == 0 {
		return ErrFinalizeNoResults
	}
	return s.store.SetPeriodStatus(ctx, periodID, PeriodStatusReviewed)
}

// Finalize locks a reviewed period and renders every payslip PDF.
func (s *Service) Finalize(ctx context.Context, periodID string) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status != PeriodStatusReviewed {
		return ErrFinalizeInvalidState
	}

	payslips, err := s.store.ListPayslips(ctx, periodID, "", 10000, 0)
	if err != nil {
		return err
	}
	if len(payslips) == 0 {
		return ErrFinalizeNoResults
	}

	for _, payslip := range payslips {
		path, err := s.GeneratePayslipPDF(ctx, period, payslip)
		if err != nil {
			return fmt.Errorf("payslip pdf for %s: %w", payslip.EmployeeID, err)
		}
		if err := s.store.SetPayslipFile(ctx, payslip.ID, path); err != nil {
			return err
		}
	}

	return s.store.SetPeriodStatus(ctx, periodID, PeriodStatusFinalized)
}

// Reopen returns a reviewed period to draft so it can be re-run.
func (s *Service) Reopen(ctx context.Context, periodID string) error {
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return err
	}
	if period.Status == PeriodStatusFinalized {
		return ErrPeriodFinalized
	}
	return s.store.SetPeriodStatus(ctx, periodID, PeriodStatusDraft)
}

// GeneratePayslipPDF renders one payslip to disk and returns the file path.
func (s *Service) GeneratePayslipPDF(ctx context.Context, period Period, payslip Payslip) (string, error) {
	employee, err := s.employees.GetEmployee(ctx, payslip.EmployeeID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.payslipDir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(s.payslipDir, payslip.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s (%s)", employee.FirstName, employee.LastName, employee.EmployeeNumber))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Attendance: %d/%d days", payslip.Attendance.PresentDays, payslip.Attendance.TotalWorkingDays))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Earnings")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, name := range sortedKeys(payslip.Result.Earnings) {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %s %s", name, payslip.Result.Earnings[name].StringFixed(2), payslip.Currency))
		pdf.Ln(6)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, name := range sortedKeys(payslip.Result.Deductions) {
		pdf.Cell(0, 7, fmt.Sprintf("%s: %s %s", name, payslip.Result.Deductions[name].StringFixed(2), payslip.Currency))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %s %s", payslip.Result.GrossSalary.StringFixed(2), payslip.Currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Total deductions: %s %s", payslip.Result.TotalDeductions.StringFixed(2), payslip.Currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s %s", payslip.Result.NetSalary.StringFixed(2), payslip.Currency))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
