package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Store() *Store {
	return s.store
}

// LogTime records a time entry. The owning week must not already be
// submitted: editing a submitted week would silently change what a manager
// reviewed.
func (s *Service) LogTime(ctx context.Context, e TimeEntry) (string, error) {
	if e.Hours <= 0 {
		return "", ErrNonPositiveHours
	}
	e.EntryDate = DateOnly(e.EntryDate)

	logged, err := s.store.DayHours(ctx, e.EmployeeID, e.EntryDate)
	if err != nil {
		return "", err
	}
	if logged+e.Hours > MaxDailyHours {
		return "", ErrDailyHoursExceeded
	}

	sheet, err := s.store.FindByWeek(ctx, e.EmployeeID, MondayOfWeek(e.EntryDate, 0))
	if err == nil && sheet.Status != StatusDraft && sheet.Status != StatusRejected {
		return "", ErrTimesheetLocked
	}
	if err != nil && !errors.Is(err, ErrTimesheetNotFound) {
		return "", err
	}

	return s.store.CreateEntry(ctx, e)
}

// OpenWeek creates (or returns) the timesheet for a week. The caller supplies
// the week start explicitly and it must be a Monday; the week is never
// silently realigned.
func (s *Service) OpenWeek(ctx context.Context, employeeID string, weekStart time.Time) (Timesheet, error) {
	if err := ValidateWeekStart(weekStart); err != nil {
		return Timesheet{}, err
	}
	weekStart = DateOnly(weekStart)

	existing, err := s.store.FindByWeek(ctx, employeeID, weekStart)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrTimesheetNotFound) {
		return Timesheet{}, err
	}

	alignment := AlignWeek(weekStart, 0)
	sheet := Timesheet{
		EmployeeID: employeeID,
		WeekStart:  alignment.WeekStart,
		WeekEnd:    alignment.WeekEnd,
		ISOYear:    alignment.ISOYear,
		ISOWeek:    alignment.ISOWeek,
		Status:     StatusDraft,
	}
	id, err := s.store.Create(ctx, sheet)
	if err != nil {
		return Timesheet{}, err
	}
	return s.store.GetByID(ctx, id)
}

// SubmitWeek totals the week's entries and moves the sheet to submitted.
// Only draft and rejected sheets may be submitted; an empty week is rejected
// rather than producing a zero-hour submission.
func (s *Service) SubmitWeek(ctx context.Context, employeeID string, weekStart time.Time) (Timesheet, error) {
	sheet, err := s.OpenWeek(ctx, employeeID, weekStart)
	if err != nil {
		return Timesheet{}, err
	}
	if sheet.Status != StatusDraft && sheet.Status != StatusRejected {
		return Timesheet{}, fmt.Errorf("submit from %s: %w", sheet.Status, ErrInvalidTransition)
	}

	total, err := s.store.WeekHours(ctx, employeeID, sheet.WeekStart, sheet.WeekEnd)
	if err != nil {
		return Timesheet{}, err
	}
	if total == 0 {
		return Timesheet{}, ErrEmptyWeek
	}

	if err := s.store.MarkSubmitted(ctx, sheet.ID, total); err != nil {
		return Timesheet{}, err
	}
	return s.store.GetByID(ctx, sheet.ID)
}

// Decide approves or rejects a submitted timesheet.
func (s *Service) Decide(ctx context.Context, timesheetID, decidedBy, status, note string) (Timesheet, error) {
	if status != StatusApproved && status != StatusRejected {
		return Timesheet{}, ErrInvalidTransition
	}
	sheet, err := s.store.GetByID(ctx, timesheetID)
	if err != nil {
		return Timesheet{}, err
	}
	if sheet.Status != StatusSubmitted {
		return Timesheet{}, fmt.Errorf("decide from %s: %w", sheet.Status, ErrInvalidTransition)
	}
	if err := s.store.MarkDecided(ctx, timesheetID, status, decidedBy, note); err != nil {
		return Timesheet{}, err
	}
	return s.store.GetByID(ctx, timesheetID)
}

// WeekOf is a convenience for "the week containing this date, N weeks back".
func (s *Service) WeekOf(date time.Time, weeksOffset int) WeekAlignment {
	return AlignWeek(date, weeksOffset)
}
