package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrStructureNotFound = errors.New("salary structure not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// SalaryStructureFor loads an employee's salary structure with its earning
// and deduction components.
func (s *Store) SalaryStructureFor(ctx context.Context, employeeID string) (SalaryStructure, error) {
	var structureID string
	var structure SalaryStructure
	err := s.DB.QueryRow(ctx, `
    SELECT id, basic_salary FROM salary_structures WHERE employee_id = $1
  `, employeeID).Scan(&structureID, &structure.BasicSalary)
	if errors.Is(err, pgx.ErrNoRows) {
		return SalaryStructure{}, ErrStructureNotFound
	}
	if err != nil {
		return SalaryStructure{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT component_type, name, calc_type, base, amount
    FROM salary_components
    WHERE structure_id = $1
    ORDER BY name
  `, structureID)
	if err != nil {
		return SalaryStructure{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var componentType, name, calcType, base string
		var amount decimal.Decimal
		if err := rows.Scan(&componentType, &name, &calcType, &base, &amount); err != nil {
			return SalaryStructure{}, err
		}
		switch componentType {
		case "earning":
			structure.Allowances = append(structure.Allowances, AllowanceRate{Name: name, CalcType: calcType, Amount: amount})
		case "deduction":
			structure.Deductions = append(structure.Deductions, DeductionRate{Name: name, CalcType: calcType, Base: base, Amount: amount})
		}
	}
	return structure, rows.Err()
}

// SaveSalaryStructure upserts an employee's structure and replaces its
// components in one transaction.
func (s *Store) SaveSalaryStructure(ctx context.Context, employeeID string, structure SalaryStructure, effectiveFrom time.Time) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var structureID string
	err = tx.QueryRow(ctx, `
    INSERT INTO salary_structures (employee_id, basic_salary, effective_from)
    VALUES ($1,$2,$3)
    ON CONFLICT (employee_id)
    DO UPDATE SET basic_salary = EXCLUDED.basic_salary, effective_from = EXCLUDED.effective_from
    RETURNING id
  `, employeeID, structure.BasicSalary, effectiveFrom).Scan(&structureID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, "DELETE FROM salary_components WHERE structure_id = $1", structureID); err != nil {
		return err
	}
	for _, a := range structure.Allowances {
		if _, err := tx.Exec(ctx, `
      INSERT INTO salary_components (structure_id, component_type, name, calc_type, base, amount)
      VALUES ($1,'earning',$2,$3,'basic',$4)
    `, structureID, a.Name, a.CalcType, a.Amount); err != nil {
			return err
		}
	}
	for _, d := range structure.Deductions {
		if _, err := tx.Exec(ctx, `
      INSERT INTO salary_components (structure_id, component_type, name, calc_type, base, amount)
      VALUES ($1,'deduction',$2,$3,$4,$5)
    `, structureID, d.Name, d.CalcType, d.Base, d.Amount); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func scanPeriod(row pgx.Row) (Period, error) {
	var p Period
	err := row.Scan(&p.ID, &p.Name, &p.StartDate, &p.EndDate, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrPeriodNotFound
	}
	if err != nil {
		return Period{}, err
	}
	return p, nil
}

func (s *Store) GetPeriod(ctx context.Context, id string) (Period, error) {
	return scanPeriod(s.DB.QueryRow(ctx, `
    SELECT id, name, start_date, end_date, status, created_at
    FROM payroll_periods WHERE id = $1
  `, id))
}

func (s *Store) CreatePeriod(ctx context.Context, name string, start, end time.Time) (string, error) {
	var overlaps int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM payroll_periods
    WHERE start_date <= $2 AND end_date >= $1
  `, start, end).Scan(&overlaps)
	if err != nil {
		return "", err
	}
	if overlaps > 0 {
		return "", ErrPeriodOverlap
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO payroll_periods (name, start_date, end_date)
    VALUES ($1,$2,$3)
    RETURNING id
  `, name, start, end).Scan(&id)
	return id, err
}

func (s *Store) ListPeriods(ctx context.Context, limit, offset int) ([]Period, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, start_date, end_date, status, created_at
    FROM payroll_periods
    ORDER BY start_date DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func (s *Store) SetPeriodStatus(ctx context.Context, id, status string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE payroll_periods SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPeriodNotFound
	}
	return nil
}

// SavePayslip upserts one employee's result for a period. Re-running a draft
// period overwrites previous results.
func (s *Store) SavePayslip(ctx context.Context, p Payslip) (string, error) {
	earnings, err := json.Marshal(p.Result.Earnings)
	if err != nil {
		return "", err
	}
	deductions, err := json.Marshal(p.Result.Deductions)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO payslips (period_id, employee_id, earnings, deductions, gross,
                          total_deductions, net, currency, working_days, present_days,
                          overtime_hours)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    ON CONFLICT (period_id, employee_id)
    DO UPDATE SET earnings = EXCLUDED.earnings, deductions = EXCLUDED.deductions,
                  gross = EXCLUDED.gross, total_deductions = EXCLUDED.total_deductions,
                  net = EXCLUDED.net, working_days = EXCLUDED.working_days,
                  present_days = EXCLUDED.present_days,
                  overtime_hours = EXCLUDED.overtime_hours,
                  file_path = '', created_at = now()
    RETURNING id
  `, p.PeriodID, p.EmployeeID, earnings, deductions, p.Result.GrossSalary,
		p.Result.TotalDeductions, p.Result.NetSalary, p.Currency,
		p.Attendance.TotalWorkingDays, p.Attendance.PresentDays, p.Attendance.OvertimeHours).Scan(&id)
	return id, err
}

func (s *Store) GetPayslip(ctx context.Context, payslipID string) (Payslip, error) {
	var p Payslip
	var earnings, deductions []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, period_id, employee_id, earnings, deductions, gross, total_deductions,
           net, currency, working_days, present_days, overtime_hours, file_path, created_at
    FROM payslips WHERE id = $1
  `, payslipID).Scan(&p.ID, &p.PeriodID, &p.EmployeeID, &earnings, &deductions,
		&p.Result.GrossSalary, &p.Result.TotalDeductions, &p.Result.NetSalary,
		&p.Currency, &p.Attendance.TotalWorkingDays, &p.Attendance.PresentDays,
		&p.Attendance.OvertimeHours, &p.FileURL, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrPayslipNotFound
	}
	if err != nil {
		return Payslip{}, err
	}
	if err := json.Unmarshal(earnings, &p.Result.Earnings); err != nil {
		return Payslip{}, err
	}
	if err := json.Unmarshal(deductions, &p.Result.Deductions); err != nil {
		return Payslip{}, err
	}
	return p, nil
}

func (s *Store) SetPayslipFile(ctx context.Context, payslipID, path string) error {
	_, err := s.DB.Exec(ctx, "UPDATE payslips SET file_path = $2 WHERE id = $1", payslipID, path)
	return err
}

func (s *Store) ClearPeriodResults(ctx context.Context, periodID string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, "DELETE FROM payroll_warnings WHERE period_id = $1", periodID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM payslips WHERE period_id = $1", periodID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) AddWarning(ctx context.Context, periodID, employeeID, warning string) error {
	var emp any
	if employeeID != "" {
		emp = employeeID
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payroll_warnings (period_id, employee_id, warning)
    VALUES ($1,$2,$3)
  `, periodID, emp, warning)
	return err
}

func (s *Store) PeriodSummary(ctx context.Context, periodID string) (RunSummary, error) {
	summary := RunSummary{Warnings: map[string]int{}}
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(gross), 0), COALESCE(SUM(total_deductions), 0),
           COALESCE(SUM(net), 0), COUNT(*)
    FROM payslips WHERE period_id = $1
  `, periodID).Scan(&summary.TotalGross, &summary.TotalDeductions, &summary.TotalNet, &summary.EmployeeCount)
	if err != nil {
		return RunSummary{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT warning, COUNT(*) FROM payroll_warnings
    WHERE period_id = $1 GROUP BY warning
  `, periodID)
	if err != nil {
		return RunSummary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var warning string
		var count int
		if err := rows.Scan(&warning, &count); err != nil {
			return RunSummary{}, err
		}
		summary.Warnings[warning] = count
	}
	return summary, rows.Err()
}

func (s *Store) Register(ctx context.Context, periodID string) ([]RegisterRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.employee_id, e.employee_number, e.first_name, e.last_name,
           p.gross, p.total_deductions, p.net, p.currency
    FROM payslips p
    JOIN employees e ON e.id = p.employee_id
    WHERE p.period_id = $1
    ORDER BY e.employee_number
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var register []RegisterRow
	for rows.Next() {
		var r RegisterRow
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeNumber, &r.FirstName, &r.LastName,
			&r.Gross, &r.Deductions, &r.Net, &r.Currency); err != nil {
			return nil, err
		}
		register = append(register, r)
	}
	return register, rows.Err()
}

func (s *Store) ListPayslips(ctx context.Context, periodID, employeeID string, limit, offset int) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, period_id, employee_id, earnings, deductions, gross, total_deductions,
           net, currency, working_days, present_days, overtime_hours, file_path, created_at
    FROM payslips
    WHERE ($1 = '' OR period_id::text = $1)
      AND ($2 = '' OR employee_id::text = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, periodID, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payslips []Payslip
	for rows.Next() {
		var p Payslip
		var earnings, deductions []byte
		if err := rows.Scan(&p.ID, &p.PeriodID, &p.EmployeeID, &earnings, &deductions,
			&p.Result.GrossSalary, &p.Result.TotalDeductions, &p.Result.NetSalary,
			&p.Currency, &p.Attendance.TotalWorkingDays, &p.Attendance.PresentDays,
			&p.Attendance.OvertimeHours, &p.FileURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(earnings, &p.Result.Earnings); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(deductions, &p.Result.Deductions); err != nil {
			return nil, err
		}
		payslips = append(payslips, p)
	}
	return payslips, rows.Err()
}
