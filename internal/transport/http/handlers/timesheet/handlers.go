package timesheethandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/timesheet"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service  *timesheet.Service
	Core     *core.Store
	Audit    *audit.Service
	Notifier *notifications.Service
}

func NewHandler(service *timesheet.Service, coreStore *core.Store, auditSvc *audit.Service, notifier *notifications.Service) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditSvc, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/timesheets", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermTimesheetsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermTimesheetsRead)).Get("/week", h.handleWeekOf)
		r.With(middleware.RequirePermission(auth.PermTimesheetsWrite)).Post("/entries", h.handleLogTime)
		r.With(middleware.RequirePermission(auth.PermTimesheetsWrite)).Post("/open", h.handleOpenWeek)
		r.With(middleware.RequirePermission(auth.PermTimesheetsWrite)).Post("/submit", h.handleSubmitWeek)
		r.Route("/{timesheetID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermTimesheetsRead)).Get("/", h.handleGet)
			r.With(middleware.RequirePermission(auth.PermTimesheetsReview)).Post("/approve", h.handleApprove)
			r.With(middleware.RequirePermission(auth.PermTimesheetsReview)).Post("/reject", h.handleReject)
		})
	})
}

// selfEmployee resolves the calling user's employee record. Handlers that act
// on behalf of the caller always use this, never a client-supplied ID.
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

// handleWeekOf previews the week a date belongs to, optionally shifted by
// whole weeks. Useful for clients rendering "previous week" navigation.
func (h *Handler) handleWeekOf(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	raw := r.URL.Query().Get("date")
	date, err := shared.ParseDate(raw)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", requestID)
		return
	}
	offset := 0
	if rawOffset := r.URL.Query().Get("weeksOffset"); rawOffset != "" {
		offset, err = strconv.Atoi(rawOffset)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_offset", "weeksOffset must be an integer", requestID)
			return
		}
	}

	api.Success(w, h.Service.WeekOf(date, offset), requestID)
}

type logTimeRequest struct {
	Date        string  `json:"date"`
	ProjectCode string  `json:"projectCode"`
	Hours       float64 `json:"hours"`
	Note        string  `json:"note"`
}

func (h *Handler) handleLogTime(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employee, ok := h.selfEmployee(w, r)
	if !ok {
		return
	}

	var payload logTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.LogTime(r.Context(), timesheet.TimeEntry{
		EmployeeID:  employee.ID,
		EntryDate:   date,
		ProjectCode: payload.ProjectCode,
		Hours:       payload.Hours,
		Note:        payload.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrNonPositiveHours):
			api.Fail(w, http.StatusBadRequest, "invalid_hours", "hours must be positive", requestID)
		case errors.Is(err, timesheet.ErrDailyHoursExceeded):
			api.Fail(w, http.StatusBadRequest, "daily_hours_exceeded", "daily hours limit exceeded", requestID)
		case errors.Is(err, timesheet.ErrTimesheetLocked):
			api.Fail(w, http.StatusConflict, "timesheet_locked", "timesheet already submitted for this week", requestID)
		default:
			slog.Error("time entry create failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "entry_create_failed", "failed to log time", requestID)
		}
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

type weekRequest struct {
	Date        string `json:"date"`
	WeeksOffset int    `json:"weeksOffset"`
	WeekStart   string `json:"weekStart"`
}

// resolveWeekStart returns the Monday the request targets: an explicit
// weekStart is taken verbatim (and must be a Monday), otherwise the week is
// derived from date plus weeksOffset.
func resolveWeekStart(payload weekRequest) (weekStart bool, value string) {
	if payload.WeekStart != "" {
		return true, payload.WeekStart
	}
	return false, payload.Date
}

func (h *Handler) handleOpenWeek(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employee, ok := h.selfEmployee(w, r)
	if !ok {
		return
	}

	var payload weekRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	explicit, raw := resolveWeekStart(payload)
	date, err := shared.ParseDate(raw)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", requestID)
		return
	}
	weekStart := date
	if !explicit {
		weekStart = h.Service.WeekOf(date, payload.WeeksOffset).WeekStart
	}

	sheet, err := h.Service.OpenWeek(r.Context(), employee.ID, weekStart)
	if err != nil {
		if errors.Is(err, timesheet.ErrInvalidWeekStart) {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_week_start", "weekStart must be a Monday", requestID)
			return
		}
		slog.Error("open week failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "open_week_failed", "failed to open week", requestID)
		return
	}
	api.Success(w, sheet, requestID)
}

func (h *Handler) handleSubmitWeek(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employee, ok := h.selfEmployee(w, r)
	if !ok {
		return
	}

	var payload weekRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	explicit, raw := resolveWeekStart(payload)
	date, err := shared.ParseDate(raw)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD", requestID)
		return
	}
	weekStart := date
	if !explicit {
		weekStart = h.Service.WeekOf(date, payload.WeeksOffset).WeekStart
	}

	sheet, err := h.Service.SubmitWeek(r.Context(), employee.ID, weekStart)
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrInvalidWeekStart):
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_week_start", "weekStart must be a Monday", requestID)
		case errors.Is(err, timesheet.ErrEmptyWeek):
			api.Fail(w, http.StatusBadRequest, "empty_week", "no time entries in this week", requestID)
		case errors.Is(err, timesheet.ErrInvalidTransition):
			api.Fail(w, http.StatusConflict, "invalid_transition", "timesheet cannot be submitted in its current state", requestID)
		default:
			slog.Error("submit week failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "submit_failed", "failed to submit timesheet", requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), employee.UserID, "timesheet.submit", "timesheet", sheet.ID, requestID, shared.ClientIP(r), nil, sheet); err != nil {
		slog.Warn("audit timesheet.submit failed", "err", err)
	}
	api.Success(w, sheet, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)

	employeeID := r.URL.Query().Get("employeeId")
	if user.Role == auth.RoleEmployee {
		employee, err := h.Core.FindEmployeeByUserID(r.Context(), user.UserID)
		if err != nil {
			api.Fail(w, http.StatusNotFound, "no_employee_record", "no employee record for user", requestID)
			return
		}
		employeeID = employee.ID
	}

	sheets, err := h.Service.Store().List(r.Context(), employeeID, r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		slog.Error("timesheet list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "timesheet_list_failed", "failed to list timesheets", requestID)
		return
	}
	api.Success(w, sheets, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sheet, err := h.Service.Store().GetByID(r.Context(), chi.URLParam(r, "timesheetID"))
	if err != nil {
		if errors.Is(err, timesheet.ErrTimesheetNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "timesheet not found", requestID)
			return
		}
		slog.Error("timesheet lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "timesheet_get_failed", "failed to load timesheet", requestID)
		return
	}
	api.Success(w, sheet, requestID)
}

type decisionRequest struct {
	Note string `json:"note"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, timesheet.StatusApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, timesheet.StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status string) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	// Note is optional; an empty body is fine.
	var payload decisionRequest
	_ = json.NewDecoder(r.Body).Decode(&payload)

	sheet, err := h.Service.Decide(r.Context(), chi.URLParam(r, "timesheetID"), user.UserID, status, payload.Note)
	if err != nil {
		switch {
		case errors.Is(err, timesheet.ErrTimesheetNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "timesheet not found", requestID)
		case errors.Is(err, timesheet.ErrInvalidTransition):
			api.Fail(w, http.StatusConflict, "invalid_transition", "timesheet is not awaiting review", requestID)
		default:
			slog.Error("timesheet decision failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "decision_failed", "failed to record decision", requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "timesheet."+status, "timesheet", sheet.ID, requestID, shared.ClientIP(r), nil, sheet); err != nil {
		slog.Warn("audit timesheet decision failed", "err", err)
	}
	h.notifyDecision(r, sheet, status)
	api.Success(w, sheet, requestID)
}

func (h *Handler) notifyDecision(r *http.Request, sheet timesheet.Timesheet, status string) {
	employee, err := h.Core.GetEmployee(r.Context(), sheet.EmployeeID)
	if err != nil || employee.UserID == "" {
		return
	}
	body := "Your timesheet for week starting " + shared.FormatDate(sheet.WeekStart) + " was " + status + "."
	if err := h.Notifier.Notify(r.Context(), employee.UserID, notifications.KindTimesheetDecision, "Timesheet "+status, body); err != nil {
		slog.Warn("timesheet notification failed", "err", err)
	}
}
