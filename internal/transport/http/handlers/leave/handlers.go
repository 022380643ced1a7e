package leavehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/leave"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *leave.Service
	Core    *core.Store
	Audit   *audit.Service
}

func NewHandler(service *leave.Service, coreStore *core.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/types", h.handleListTypes)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/types", h.handleCreateType)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/balances", h.handleBalances)
		r.Route("/requests", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/", h.handleListRequests)
			r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/", h.handleSubmit)
			r.Route("/{requestID}", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/approve", h.handleApprove)
				r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/reject", h.handleReject)
				r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/cancel", h.handleCancel)
			})
		})
	})
}

func (h *Handler) selfEmployee(w http.ResponseWriter, r *http.Request) (core.Employee, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return core.Employee{}, false
	}
	employee, err := h.Core.FindEmployeeByUserID(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "no_employee_record", "no employee record for user", requestID)
		return core.Employee{}, false
	}
	return employee, true
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	types, err := h.Service.Types(r.Context())
	if err != nil {
		slog.Error("leave type list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "leave_type_list_failed", "failed to list leave types", requestID)
		return
	}
	api.Success(w, types, requestID)
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload leave.LeaveType
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name)
	v.NonNegative("annualQuota", payload.AnnualQuota)
	v.NonNegative("accrualPerMonth", payload.AccrualPerMonth)
	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Service.CreateType(r.Context(), payload)
	if err != nil {
		slog.Error("leave type create failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "leave_type_create_failed", "failed to create leave type", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "leave.type.create", "leave_type", created.ID, requestID, shared.ClientIP(r), nil, created); err != nil {
		slog.Warn("audit leave.type.create failed", "err", err)
	}
	api.Created(w, created, requestID)
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	employeeID := r.URL.Query().Get("employeeId")
	if user.Role == auth.RoleEmployee || employeeID == "" {
		employee, ok := h.selfEmployee(w, r)
		if !ok {
			return
		}
		employeeID = employee.ID
	}

	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be an integer", requestID)
			return
		}
		year = parsed
	}

	balances, err := h.Service.Balances(r.Context(), employeeID, year)
	if err != nil {
		slog.Error("leave balance list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "leave_balance_failed", "failed to list balances", requestID)
		return
	}
	api.Success(w, balances, requestID)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)

	employeeID := r.URL.Query().Get("employeeId")
	if user.Role == auth.RoleEmployee {
		employee, ok := h.selfEmployee(w, r)
		if !ok {
			return
		}
		employeeID = employee.ID
	}

	requests, err := h.Service.Requests(r.Context(), employeeID, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		slog.Error("leave request list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", requestID)
		return
	}
	api.Success(w, requests, requestID)
}

type submitRequest struct {
	LeaveTypeID string `json:"leaveTypeId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	StartHalf   bool   `json:"startHalf"`
	EndHalf     bool   `json:"endHalf"`
	Reason      string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employee, ok := h.selfEmployee(w, r)
	if !ok {
		return
	}

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("leaveTypeId", payload.LeaveTypeID)
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	if !v.HasIssues() {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, requestID) {
		return
	}

	request, err := h.Service.Submit(r.Context(), employee.ID, payload.LeaveTypeID, payload.Reason, start, end, payload.StartHalf, payload.EndHalf)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrTypeNotFound):
			api.Fail(w, http.StatusNotFound, "leave_type_not_found", "leave type not found", requestID)
		case errors.Is(err, leave.ErrInvalidDateRange), errors.Is(err, leave.ErrInvalidHalfDayRange):
			api.Fail(w, http.StatusBadRequest, "invalid_range", err.Error(), requestID)
		case errors.Is(err, leave.ErrOverlappingRequest):
			api.Fail(w, http.StatusConflict, "overlapping_request", "an overlapping leave request already exists", requestID)
		case errors.Is(err, leave.ErrInsufficientBalance):
			api.Fail(w, http.StatusUnprocessableEntity, "insufficient_balance", "insufficient leave balance", requestID)
		default:
			slog.Error("leave submit failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "leave_submit_failed", "failed to submit leave request", requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), employee.UserID, "leave.request.create", "leave_request", request.ID, requestID, shared.ClientIP(r), nil, request); err != nil {
		slog.Warn("audit leave.request.create failed", "err", err)
	}
	api.Created(w, request, requestID)
}

type decisionRequest struct {
	Note string `json:"note"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var payload decisionRequest
	_ = json.NewDecoder(r.Body).Decode(&payload)

	id := chi.URLParam(r, "requestID")
	var (
		request leave.Request
		err     error
		action  = "leave.request.reject"
	)
	if approve {
		action = "leave.request.approve"
		request, err = h.Service.Approve(r.Context(), id, user.UserID, payload.Note)
	} else {
		request, err = h.Service.Reject(r.Context(), id, user.UserID, payload.Note)
	}
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrRequestNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		case errors.Is(err, leave.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", "leave request is not pending", requestID)
		default:
			slog.Error("leave decision failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "leave_decision_failed", "failed to record decision", requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, action, "leave_request", request.ID, requestID, shared.ClientIP(r), nil, request); err != nil {
		slog.Warn("audit leave decision failed", "err", err)
	}
	api.Success(w, request, requestID)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employee, ok := h.selfEmployee(w, r)
	if !ok {
		return
	}

	request, err := h.Service.Cancel(r.Context(), chi.URLParam(r, "requestID"), employee.ID)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrRequestNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", requestID)
		case errors.Is(err, leave.ErrNotOwner):
			api.Fail(w, http.StatusForbidden, "forbidden", "not your leave request", requestID)
		case errors.Is(err, leave.ErrInvalidState):
			api.Fail(w, http.StatusConflict, "invalid_state", "leave request cannot be cancelled", requestID)
		default:
			slog.Error("leave cancel failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "leave_cancel_failed", "failed to cancel leave request", requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), employee.UserID, "leave.request.cancel", "leave_request", request.ID, requestID, shared.ClientIP(r), nil, request); err != nil {
		slog.Warn("audit leave.request.cancel failed", "err", err)
	}
	api.Success(w, request, requestID)
}
