package timesheet

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

func (s *Store) CreateEntry(ctx context.Context, e TimeEntry) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_entries (employee_id, entry_date, project_code, hours, note)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, e.EmployeeID, e.EntryDate, e.ProjectCode, e.Hours, e.Note).Scan(&id)
	return id, err
}

func (s *Store) ListEntries(ctx context.Context, employeeID string, from, to time.Time) ([]TimeEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, entry_date, project_code, hours, note, created_at
    FROM time_entries
    WHERE employee_id = $1 AND entry_date BETWEEN $2 AND $3
    ORDER BY entry_date, created_at
  `, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.EntryDate, &e.ProjectCode, &e.Hours, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DayHours(ctx context.Context, employeeID string, day time.Time) (float64, error) {
	var hours float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(hours), 0) FROM time_entries
    WHERE employee_id = $1 AND entry_date = $2
  `, employeeID, day).Scan(&hours)
	return hours, err
}

func (s *Store) WeekHours(ctx context.Context, employeeID string, weekStart, weekEnd time.Time) (float64, error) {
	var hours float64
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(hours), 0) FROM time_entries
    WHERE employee_id = $1 AND entry_date BETWEEN $2 AND $3
  `, employeeID, weekStart, weekEnd).Scan(&hours)
	return hours, err
}

const timesheetColumns = `
  id, employee_id, week_start, week_end, iso_year, iso_week, status, total_hours,
  submitted_at, COALESCE(decided_by::text, ''), decided_at, decision_note, created_at`

func scanTimesheet(row pgx.Row) (Timesheet, error) {
	var t Timesheet
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.WeekStart, &t.WeekEnd, &t.ISOYear, &t.ISOWeek,
		&t.Status, &t.TotalHours, &t.SubmittedAt, &t.DecidedBy, &t.DecidedAt,
		&t.DecisionNote, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrTimesheetNotFound
	}
	if err != nil {
		return Timesheet{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Timesheet, error) {
	return scanTimesheet(s.DB.QueryRow(ctx, "SELECT"+timesheetColumns+" FROM timesheets WHERE id = $1", id))
}

func (s *Store) FindByWeek(ctx context.Context, employeeID string, weekStart time.Time) (Timesheet, error) {
	return scanTimesheet(s.DB.QueryRow(ctx,
		"SELECT"+timesheetColumns+" FROM timesheets WHERE employee_id = $1 AND week_start = $2",
		employeeID, weekStart))
}

func (s *Store) Create(ctx context.Context, t Timesheet) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO timesheets (employee_id, week_start, week_end, iso_year, iso_week, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, t.EmployeeID, t.WeekStart, t.WeekEnd, t.ISOYear, t.ISOWeek, t.Status).Scan(&id)
	return id, err
}

func (s *Store) List(ctx context.Context, employeeID, status string, limit, offset int) ([]Timesheet, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+timesheetColumns+`
    FROM timesheets
    WHERE ($1 = '' OR employee_id::text = $1)
      AND ($2 = '' OR status = $2)
    ORDER BY week_start DESC
    LIMIT $3 OFFSET $4
  `, employeeID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sheets []Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, t)
	}
	return sheets, rows.Err()
}

func (s *Store) MarkSubmitted(ctx context.Context, id string, totalHours float64) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET status = $2, total_hours = $3, submitted_at = now()
    WHERE id = $1
  `, id, StatusSubmitted, totalHours)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimesheetNotFound
	}
	return nil
}

func (s *Store) MarkDecided(ctx context.Context, id, status, decidedBy, note string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET status = $2, decided_by = $3, decided_at = now(), decision_note = $4
    WHERE id = $1
  `, id, status, decidedBy, note)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTimesheetNotFound
	}
	return nil
}

// AttendanceForPeriod derives payroll attendance from approved timesheets:
// distinct days with logged time inside [from, to], and the sum of hours
// beyond StandardDailyHours per day as overtime.
func (s *Store) AttendanceForPeriod(ctx context.Context, employeeID string, from, to time.Time) (AttendanceSummary, error) {
	var summary AttendanceSummary
	err := s.DB.QueryRow(ctx, `
    WITH daily AS (
      SELECT e.entry_date, SUM(e.hours) AS day_hours
      FROM time_entries e
      JOIN timesheets t
        ON t.employee_id = e.employee_id
       AND e.entry_date BETWEEN t.week_start AND t.week_end
      WHERE e.employee_id = $1
        AND e.entry_date BETWEEN $2 AND $3
        AND t.status = $4
      GROUP BY e.entry_date
    )
    SELECT COUNT(*) AS present_days,
           COALESCE(SUM(GREATEST(day_hours - $5, 0)), 0) AS overtime_hours
    FROM daily
  `, employeeID, from, to, StatusApproved, StandardDailyHours).
		Scan(&summary.PresentDays, &summary.OvertimeHours)
	return summary, err
}
