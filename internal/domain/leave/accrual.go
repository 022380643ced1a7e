package leave

import (
	"context"
	"time"
)

type AccrualSummary struct {
	TypesProcessed   int `json:"typesProcessed"`
	EmployeesAccrued int `json:"employeesAccrued"`
}

// ApplyAccruals credits each active employee the monthly accrual of every
// leave type that defines one, capped at the type's annual quota. Idempotent
// within a calendar month: a second run for the same month is a no-op.
func (s *Service) ApplyAccruals(ctx context.Context, now time.Time) (AccrualSummary, error) {
	var summary AccrualSummary

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	types, err := s.store.ListTypes(ctx)
	if err != nil {
		return summary, err
	}

	for _, leaveType := range types {
		if leaveType.AccrualPerMonth <= 0 {
			continue
		}

		last, err := s.store.lastAccruedOn(ctx, leaveType.ID)
		if err != nil {
			return summary, err
		}
		if !last.IsZero() && !last.Before(monthStart) {
			continue
		}

		accrued, err := s.store.accrueType(ctx, leaveType, now.Year(), monthStart)
		if err != nil {
			return summary, err
		}
		summary.TypesProcessed++
		summary.EmployeesAccrued += accrued
	}

	return summary, nil
}

func (s *Store) lastAccruedOn(ctx context.Context, leaveTypeID string) (time.Time, error) {
	var last *time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT MAX(period_start) FROM leave_accrual_runs WHERE leave_type_id = $1
  `, leaveTypeID).Scan(&last)
	if err != nil {
		return time.Time{}, err
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// accrueType credits every active employee inside a single transaction and
// records the run so the month is not accrued twice.
func (s *Store) accrueType(ctx context.Context, leaveType LeaveType, year int, periodStart time.Time) (int, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type_id, year, balance)
    SELECT e.id, $1, $2, $3
    FROM employees e
    WHERE e.status = 'active'
    ON CONFLICT (employee_id, leave_type_id, year)
    DO UPDATE SET balance = LEAST(leave_balances.balance + EXCLUDED.balance, $4), updated_at = now()
  `, leaveType.ID, year, leaveType.AccrualPerMonth, leaveType.AnnualQuota)
	if err != nil {
		return 0, err
	}

	accrued := int(tag.RowsAffected())
	if _, err := tx.Exec(ctx, `
    INSERT INTO leave_accrual_runs (leave_type_id, period_start, employees_accrued)
    VALUES ($1,$2,$3)
  `, leaveType.ID, periodStart, accrued); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return accrued, nil
}
