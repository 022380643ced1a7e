package leave

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTypes(ctx context.Context) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, annual_quota, accrual_per_month, created_at
    FROM leave_types
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.Name, &t.AnnualQuota, &t.AccrualPerMonth, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (s *Store) GetType(ctx context.Context, id string) (LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, annual_quota, accrual_per_month, created_at
    FROM leave_types
    WHERE id = $1
  `, id).Scan(&t.ID, &t.Name, &t.AnnualQuota, &t.AccrualPerMonth, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, ErrTypeNotFound
	}
	return t, err
}

func (s *Store) CreateType(ctx context.Context, t LeaveType) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_types (name, annual_quota, accrual_per_month)
    VALUES ($1,$2,$3)
    RETURNING id
  `, t.Name, t.AnnualQuota, t.AccrualPerMonth).Scan(&id)
	return id, err
}

func (s *Store) ListBalances(ctx context.Context, employeeID string, year int) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, leave_type_id, year, balance, updated_at
    FROM leave_balances
    WHERE employee_id = $1 AND year = $2
    ORDER BY leave_type_id
  `, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year, &b.Balance, &b.UpdatedAt); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (s *Store) BalanceFor(ctx context.Context, employeeID, leaveTypeID string, year int) (float64, error) {
	var balance float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(balance), 0)
    FROM leave_balances
    WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
  `, employeeID, leaveTypeID, year).Scan(&balance)
	return balance, err
}

// AdjustBalance adds amount (positive or negative) to the employee's balance
// for the given year, creating the row when missing.
func (s *Store) AdjustBalance(ctx context.Context, employeeID, leaveTypeID string, year int, amount float64) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (employee_id, leave_type_id, year, balance)
    VALUES ($1,$2,$3,$4)
    ON CONFLICT (employee_id, leave_type_id, year)
    DO UPDATE SET balance = leave_balances.balance + EXCLUDED.balance, updated_at = now()
  `, employeeID, leaveTypeID, year, amount)
	return err
}

const requestColumns = `
  id, employee_id, leave_type_id, start_date, end_date, start_half, end_half,
  days, reason, status, COALESCE(decided_by::text, ''), decided_at, decision_note, created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveTypeID, &r.StartDate, &r.EndDate,
		&r.StartHalf, &r.EndHalf, &r.Days, &r.Reason, &r.Status,
		&r.DecidedBy, &r.DecidedAt, &r.DecisionNote, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrRequestNotFound
	}
	if err != nil {
		return Request{}, err
	}
	return r, nil
}

func (s *Store) GetRequest(ctx context.Context, id string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, "SELECT"+requestColumns+" FROM leave_requests WHERE id = $1", id))
}

func (s *Store) CreateRequest(ctx context.Context, r Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type_id, start_date, end_date, start_half, end_half, days, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, r.EmployeeID, r.LeaveTypeID, r.StartDate, r.EndDate, r.StartHalf, r.EndHalf, r.Days, r.Reason, StatusPending).Scan(&id)
	return id, err
}

func (s *Store) ListRequests(ctx context.Context, employeeID, status string, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+requestColumns+`
    FROM leave_requests
    WHERE ($1 = '' OR employee_id::text = $1)
      AND ($2 = '' OR status = $2)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// HasOverlap reports whether the employee already has a pending or approved
// request intersecting [start, end].
func (s *Store) HasOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM leave_requests
    WHERE employee_id = $1
      AND status IN ($2, $3)
      AND start_date <= $5 AND end_date >= $4
  `, employeeID, StatusPending, StatusApproved, start, end).Scan(&count)
	return count > 0, err
}

func (s *Store) SetRequestStatus(ctx context.Context, id, status, decidedBy, note string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, decided_by = NULLIF($3, '')::uuid, decided_at = now(), decision_note = $4
    WHERE id = $1
  `, id, status, decidedBy, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}
