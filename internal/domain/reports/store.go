package reports

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/leave"
	"hrms/internal/domain/timesheet"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type HeadcountRow struct {
	DepartmentID   string `json:"departmentId,omitempty"`
	DepartmentName string `json:"departmentName"`
	Active         int    `json:"active"`
	Inactive       int    `json:"inactive"`
}

func (s *Store) Headcount(ctx context.Context) ([]HeadcountRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(d.id::text, ''), COALESCE(d.name, 'Unassigned'),
           COUNT(1) FILTER (WHERE e.status = 'active'),
           COUNT(1) FILTER (WHERE e.status <> 'active')
    FROM employees e
    LEFT JOIN departments d ON d.id = e.department_id
    GROUP BY d.id, d.name
    ORDER BY COALESCE(d.name, 'Unassigned')
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HeadcountRow
	for rows.Next() {
		var r HeadcountRow
		if err := rows.Scan(&r.DepartmentID, &r.DepartmentName, &r.Active, &r.Inactive); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type LeaveUtilisationRow struct {
	LeaveTypeID   string  `json:"leaveTypeId"`
	LeaveTypeName string  `json:"leaveTypeName"`
	ApprovedDays  float64 `json:"approvedDays"`
	PendingDays   float64 `json:"pendingDays"`
	Requests      int     `json:"requests"`
}

func (s *Store) LeaveUtilisation(ctx context.Context, year int) ([]LeaveUtilisationRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lt.id, lt.name,
           COALESCE(SUM(lr.days) FILTER (WHERE lr.status = $2), 0),
           COALESCE(SUM(lr.days) FILTER (WHERE lr.status = $3), 0),
           COUNT(lr.id)
    FROM leave_types lt
    LEFT JOIN leave_requests lr
      ON lr.leave_type_id = lt.id
     AND EXTRACT(YEAR FROM lr.start_date) = $1
    GROUP BY lt.id, lt.name
    ORDER BY lt.name
  `, year, leave.StatusApproved, leave.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveUtilisationRow
	for rows.Next() {
		var r LeaveUtilisationRow
		if err := rows.Scan(&r.LeaveTypeID, &r.LeaveTypeName, &r.ApprovedDays, &r.PendingDays, &r.Requests); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type DashboardCounts struct {
	ActiveEmployees    int `json:"activeEmployees"`
	PendingLeave       int `json:"pendingLeave"`
	PendingTimesheets  int `json:"pendingTimesheets"`
	OpenPayrollPeriods int `json:"openPayrollPeriods"`
}

func (s *Store) Dashboard(ctx context.Context) (DashboardCounts, error) {
	var c DashboardCounts
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM employees WHERE status = 'active'),
      (SELECT COUNT(1) FROM leave_requests WHERE status = $1),
      (SELECT COUNT(1) FROM timesheets WHERE status = $2),
      (SELECT COUNT(1) FROM payroll_periods WHERE status <> 'finalized')
  `, leave.StatusPending, timesheet.StatusSubmitted).
		Scan(&c.ActiveEmployees, &c.PendingLeave, &c.PendingTimesheets, &c.OpenPayrollPeriods)
	return c, err
}

type JobRunFilter struct {
	JobType string
	Status  string
}

func (s *Store) ListJobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]map[string]any, error) {
	query := `
    SELECT id, job_type, status, COALESCE(detail, '{}'::jsonb), started_at, finished_at
    FROM job_runs
    WHERE 1 = 1
  `
	var args []any
	if value := strings.TrimSpace(filter.JobType); value != "" {
		query += " AND job_type = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	if value := strings.TrimSpace(filter.Status); value != "" {
		query += " AND status = $" + strconv.Itoa(len(args)+1)
		args = append(args, value)
	}
	query += " ORDER BY started_at DESC LIMIT $" + strconv.Itoa(len(args)+1) + " OFFSET $" + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []map[string]any
	for rows.Next() {
		var id, jobType, status string
		var detailRaw []byte
		var startedAt time.Time
		var finishedAt *time.Time
		if err := rows.Scan(&id, &jobType, &status, &detailRaw, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, map[string]any{
			"id":         id,
			"jobType":    jobType,
			"status":     status,
			"detail":     decodeDetail(detailRaw),
			"startedAt":  startedAt,
			"finishedAt": finishedAt,
		})
	}
	return runs, rows.Err()
}

func decodeDetail(raw []byte) map[string]any {
	detail := map[string]any{}
	if len(raw) == 0 {
		return detail
	}
	if err := json.Unmarshal(raw, &detail); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return detail
}
