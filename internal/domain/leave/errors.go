package leave

import "errors"

var (
	ErrTypeNotFound        = errors.New("leave type not found")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrInvalidDateRange    = errors.New("end date before start date")
	ErrInvalidHalfDayRange = errors.New("invalid half-day range")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrOverlappingRequest  = errors.New("overlapping leave request")
	ErrInvalidState        = errors.New("invalid request state")
	ErrNotOwner            = errors.New("request belongs to another employee")
)
