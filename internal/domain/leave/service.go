package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hrms/internal/domain/core"
	"hrms/internal/domain/notifications"
)

type Service struct {
	store    *Store
	core     *core.Store
	notifier *notifications.Service
}

func NewService(store *Store, coreStore *core.Store, notifier *notifications.Service) *Service {
	return &Service{store: store, core: coreStore, notifier: notifier}
}

func (s *Service) Types(ctx context.Context) ([]LeaveType, error) {
	return s.store.ListTypes(ctx)
}

func (s *Service) CreateType(ctx context.Context, t LeaveType) (LeaveType, error) {
	id, err := s.store.CreateType(ctx, t)
	if err != nil {
		return LeaveType{}, err
	}
	return s.store.GetType(ctx, id)
}

func (s *Service) Balances(ctx context.Context, employeeID string, year int) ([]Balance, error) {
	return s.store.ListBalances(ctx, employeeID, year)
}

func (s *Service) Requests(ctx context.Context, employeeID, status string, limit, offset int) ([]Request, error) {
	return s.store.ListRequests(ctx, employeeID, status, limit, offset)
}

func (s *Service) Request(ctx context.Context, id string) (Request, error) {
	return s.store.GetRequest(ctx, id)
}

// Submit validates and records a leave request. Paid leave types (a positive
// annual quota) require sufficient balance in the start date's year; unpaid
// types skip the balance check.
func (s *Service) Submit(ctx context.Context, employeeID, leaveTypeID, reason string, start, end time.Time, startHalf, endHalf bool) (Request, error) {
	leaveType, err := s.store.GetType(ctx, leaveTypeID)
	if err != nil {
		return Request{}, err
	}

	days, err := CalculateRequestDays(start, end, startHalf, endHalf)
	if err != nil {
		return Request{}, err
	}

	overlap, err := s.store.HasOverlap(ctx, employeeID, start, end)
	if err != nil {
		return Request{}, err
	}
	if overlap {
		return Request{}, ErrOverlappingRequest
	}

	if leaveType.AnnualQuota > 0 {
		balance, err := s.store.BalanceFor(ctx, employeeID, leaveTypeID, start.Year())
		if err != nil {
			return Request{}, err
		}
		if balance < days {
			return Request{}, ErrInsufficientBalance
		}
	}

	id, err := s.store.CreateRequest(ctx, Request{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   start,
		EndDate:     end,
		StartHalf:   startHalf,
		EndHalf:     endHalf,
		Days:        days,
		Reason:      reason,
	})
	if err != nil {
		return Request{}, err
	}

	s.notifyManager(ctx, employeeID, leaveType.Name, days)
	return s.store.GetRequest(ctx, id)
}

// Approve moves a pending request to approved and deducts the days from the
// employee's balance for the start date's year.
func (s *Service) Approve(ctx context.Context, requestID, deciderUserID, note string) (Request, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrInvalidState
	}

	if err := s.store.SetRequestStatus(ctx, requestID, StatusApproved, deciderUserID, note); err != nil {
		return Request{}, err
	}

	leaveType, err := s.store.GetType(ctx, req.LeaveTypeID)
	if err != nil {
		return Request{}, err
	}
	if leaveType.AnnualQuota > 0 {
		if err := s.store.AdjustBalance(ctx, req.EmployeeID, req.LeaveTypeID, req.StartDate.Year(), -req.Days); err != nil {
			return Request{}, err
		}
	}

	s.notifyEmployee(ctx, req.EmployeeID, leaveType.Name, StatusApproved, note)
	return s.store.GetRequest(ctx, requestID)
}

// Reject moves a pending request to rejected. The balance is untouched since
// nothing was deducted at submission.
func (s *Service) Reject(ctx context.Context, requestID, deciderUserID, note string) (Request, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.Status != StatusPending {
		return Request{}, ErrInvalidState
	}

	if err := s.store.SetRequestStatus(ctx, requestID, StatusRejected, deciderUserID, note); err != nil {
		return Request{}, err
	}

	if leaveType, err := s.store.GetType(ctx, req.LeaveTypeID); err == nil {
		s.notifyEmployee(ctx, req.EmployeeID, leaveType.Name, StatusRejected, note)
	}
	return s.store.GetRequest(ctx, requestID)
}

// Cancel lets the owning employee withdraw a pending or approved request.
// Cancelling an approved request restores the deducted balance.
func (s *Service) Cancel(ctx context.Context, requestID, employeeID string) (Request, error) {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return Request{}, err
	}
	if req.EmployeeID != employeeID {
		return Request{}, ErrNotOwner
	}
	if req.Status != StatusPending && req.Status != StatusApproved {
		return Request{}, ErrInvalidState
	}

	if req.Status == StatusApproved {
		leaveType, err := s.store.GetType(ctx, req.LeaveTypeID)
		if err != nil {
			return Request{}, err
		}
		if leaveType.AnnualQuota > 0 {
			if err := s.store.AdjustBalance(ctx, req.EmployeeID, req.LeaveTypeID, req.StartDate.Year(), req.Days); err != nil {
				return Request{}, err
			}
		}
	}

	if err := s.store.SetRequestStatus(ctx, requestID, StatusCancelled, "", ""); err != nil {
		return Request{}, err
	}
	return s.store.GetRequest(ctx, requestID)
}

func (s *Service) notifyManager(ctx context.Context, employeeID, typeName string, days float64) {
	if s.notifier == nil || s.core == nil {
		return
	}
	employee, err := s.core.GetEmployee(ctx, employeeID)
	if err != nil || employee.ManagerID == "" {
		return
	}
	manager, err := s.core.GetEmployee(ctx, employee.ManagerID)
	if err != nil || manager.UserID == "" {
		return
	}
	body := fmt.Sprintf("%s %s requested %.1f day(s) of %s.", employee.FirstName, employee.LastName, days, typeName)
	if err := s.notifier.Notify(ctx, manager.UserID, notifications.KindLeaveDecision, "Leave request pending", body); err != nil {
		slog.Warn("leave notification failed", "err", err)
	}
}

func (s *Service) notifyEmployee(ctx context.Context, employeeID, typeName, status, note string) {
	if s.notifier == nil || s.core == nil {
		return
	}
	employee, err := s.core.GetEmployee(ctx, employeeID)
	if err != nil || employee.UserID == "" {
		return
	}
	body := fmt.Sprintf("Your %s request was %s.", typeName, status)
	if note != "" {
		body += " Note: " + note
	}
	if err := s.notifier.Notify(ctx, employee.UserID, notifications.KindLeaveDecision, "Leave request "+status, body); err != nil {
		slog.Warn("leave notification failed", "err", err)
	}
}
