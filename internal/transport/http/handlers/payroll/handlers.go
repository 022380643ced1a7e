package payrollhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/payroll"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service  *payroll.Service
	Core     *core.Store
	Audit    *audit.Service
	Notifier *notifications.Service
}

func NewHandler(service *payroll.Service, coreStore *core.Store, auditSvc *audit.Service, notifier *notifications.Service) *Handler {
	return &Handler{Service: service, Core: coreStore, Audit: auditSvc, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.Route("/periods", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPayrollRun)).Get("/", h.handleListPeriods)
			r.With(middleware.RequirePermission(auth.PermPayrollWrite)).Post("/", h.handleCreatePeriod)
			r.Route("/{periodID}", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermPayrollRun)).Get("/", h.handleGetPeriod)
				r.With(middleware.RequirePermission(auth.PermPayrollRun)).Post("/run", h.handleRun)
				r.With(middleware.RequirePermission(auth.PermPayrollRun)).Post("/review", h.handleReview)
				r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Post("/finalize", h.handleFinalize)
				r.With(middleware.RequirePermission(auth.PermPayrollFinalize)).Post("/reopen", h.handleReopen)
				r.With(middleware.RequirePermission(auth.PermPayrollRun)).Get("/register", h.handleRegister)
			})
		})
		r.Route("/payslips", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/", h.handleListPayslips)
			r.Route("/{payslipID}", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/", h.handleGetPayslip)
				r.With(middleware.RequirePermission(auth.PermPayrollRead)).Get("/pdf", h.handlePayslipPDF)
			})
		})
		r.Route("/employees/{employeeID}/salary-structure", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermPayrollWrite)).Get("/", h.handleGetStructure)
			r.With(middleware.RequirePermission(auth.PermPayrollWrite)).Put("/", h.handleSaveStructure)
		})
	})
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	periods, err := h.Service.Store().ListPeriods(r.Context(), page.Limit, page.Offset)
	if err != nil {
		slog.Error("payroll period list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "period_list_failed", "failed to list payroll periods", requestID)
		return
	}
	api.Success(w, periods, requestID)
}

type createPeriodRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

func (h *Handler) handleCreatePeriod(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload createPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name)
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	if !v.HasIssues() {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Service.Store().CreatePeriod(r.Context(), payload.Name, start, end)
	if err != nil {
		if errors.Is(err, payroll.ErrPeriodOverlap) {
			api.Fail(w, http.StatusConflict, "period_overlap", "period overlaps an existing payroll period", requestID)
			return
		}
		slog.Error("payroll period create failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "period_create_failed", "failed to create payroll period", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.period.create", "payroll_period", id, requestID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit payroll.period.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	periodID := chi.URLParam(r, "periodID")

	period, err := h.Service.Store().GetPeriod(r.Context(), periodID)
	if err != nil {
		if errors.Is(err, payroll.ErrPeriodNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payroll period not found", requestID)
			return
		}
		slog.Error("payroll period lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "period_get_failed", "failed to load payroll period", requestID)
		return
	}

	summary, err := h.Service.Store().PeriodSummary(r.Context(), periodID)
	if err != nil {
		slog.Warn("period summary failed", "err", err)
	}
	api.Success(w, map[string]any{"period": period, "summary": summary}, requestID)
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")

	summary, err := h.Service.RunPeriod(r.Context(), periodID)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrPeriodNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "payroll period not found", requestID)
		case errors.Is(err, payroll.ErrPeriodFinalized):
			api.Fail(w, http.StatusConflict, "period_finalized", "finalized periods cannot be re-run", requestID)
		default:
			slog.Error("payroll run failed", "err", err)
			api.Fail(w, http.StatusInternalServerError, "payroll_run_failed", "failed to run payroll", requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.period.run", "payroll_period", periodID, requestID, shared.ClientIP(r), nil, summary); err != nil {
		slog.Warn("audit payroll.period.run failed", "err", err)
	}
	api.Success(w, summary, requestID)
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "review")
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "finalize")
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "reopen")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	periodID := chi.URLParam(r, "periodID")

	var err error
	switch action {
	case "review":
		err = h.Service.Review(r.Context(), periodID)
	case "finalize":
		err = h.Service.Finalize(r.Context(), periodID)
	case "reopen":
		err = h.Service.Reopen(r.Context(), periodID)
	}
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrPeriodNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "payroll period not found", requestID)
		case errors.Is(err, payroll.ErrFinalizeInvalidState), errors.Is(err, payroll.ErrPeriodFinalized):
			api.Fail(w, http.StatusConflict, "invalid_state", err.Error(), requestID)
		case errors.Is(err, payroll.ErrFinalizeNoResults):
			api.Fail(w, http.StatusUnprocessableEntity, "no_results", "run payroll before this step", requestID)
		default:
			slog.Error("payroll transition failed", "action", action, "err", err)
			api.Fail(w, http.StatusInternalServerError, "payroll_transition_failed", "failed to "+action+" payroll period", requestID)
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.period."+action, "payroll_period", periodID, requestID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit payroll transition failed", "err", err)
	}
	if action == "finalize" {
		h.notifyPayslips(r, periodID)
	}
	api.Success(w, map[string]string{"id": periodID}, requestID)
}

func (h *Handler) notifyPayslips(r *http.Request, periodID string) {
	payslips, err := h.Service.Store().ListPayslips(r.Context(), periodID, "", 1000, 0)
	if err != nil {
		slog.Warn("payslip notification list failed", "err", err)
		return
	}
	for _, slip := range payslips {
		employee, err := h.Core.GetEmployee(r.Context(), slip.EmployeeID)
		if err != nil || employee.UserID == "" {
			continue
		}
		if err := h.Notifier.Notify(r.Context(), employee.UserID, notifications.KindPayslipReady,
			"Payslip ready", "Your payslip is available for download."); err != nil {
			slog.Warn("payslip notification failed", "err", err)
		}
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	register, err := h.Service.Store().Register(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		slog.Error("payroll register failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to build payroll register", requestID)
		return
	}
	api.Success(w, register, requestID)
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
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

	payslips, err := h.Service.Store().ListPayslips(r.Context(), r.URL.Query().Get("periodId"), employeeID, page.Limit, page.Offset)
	if err != nil {
		slog.Error("payslip list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "payslip_list_failed", "failed to list payslips", requestID)
		return
	}
	api.Success(w, payslips, requestID)
}

// loadPayslip fetches a payslip and enforces that employees only see their own.
func (h *Handler) loadPayslip(w http.ResponseWriter, r *http.Request) (payroll.Payslip, bool) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return payroll.Payslip{}, false
	}

	slip, err := h.Service.Store().GetPayslip(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		if errors.Is(err, payroll.ErrPayslipNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestID)
			return payroll.Payslip{}, false
		}
		slog.Error("payslip lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "payslip_get_failed", "failed to load payslip", requestID)
		return payroll.Payslip{}, false
	}

	if user.Role == auth.RoleEmployee {
		employee, err := h.Core.FindEmployeeByUserID(r.Context(), user.UserID)
		if err != nil || employee.ID != slip.EmployeeID {
			api.Fail(w, http.StatusForbidden, "forbidden", "not your payslip", requestID)
			return payroll.Payslip{}, false
		}
	}
	return slip, true
}

func (h *Handler) handleGetPayslip(w http.ResponseWriter, r *http.Request) {
	slip, ok := h.loadPayslip(w, r)
	if !ok {
		return
	}
	api.Success(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	slip, ok := h.loadPayslip(w, r)
	if !ok {
		return
	}
	if slip.FileURL == "" {
		api.Fail(w, http.StatusNotFound, "pdf_not_ready", "payslip PDF has not been generated", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip-`+slip.ID+`.pdf"`)
	http.ServeFile(w, r, slip.FileURL)
}

func (h *Handler) handleGetStructure(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	structure, err := h.Service.Store().SalaryStructureFor(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, payroll.ErrStructureNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "salary structure not found", requestID)
			return
		}
		slog.Error("salary structure lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "structure_get_failed", "failed to load salary structure", requestID)
		return
	}
	api.Success(w, structure, requestID)
}

type saveStructureRequest struct {
	payroll.SalaryStructure
	EffectiveFrom string `json:"effectiveFrom"`
}

func (h *Handler) handleSaveStructure(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	if _, err := h.Core.GetEmployee(r.Context(), employeeID); err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}

	var payload saveStructureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	if payload.BasicSalary.IsNegative() {
		v.Add("basicSalary", "must not be negative")
	}
	for _, a := range payload.Allowances {
		v.Required("allowances.name", a.Name)
		v.Enum("allowances.calcType", a.CalcType, payroll.CalcTypeFixed, payroll.CalcTypePercent)
	}
	for _, d := range payload.Deductions {
		v.Required("deductions.name", d.Name)
		v.Enum("deductions.calcType", d.CalcType, payroll.CalcTypeFixed, payroll.CalcTypePercent)
		if d.CalcType == payroll.CalcTypePercent {
			v.Enum("deductions.base", d.Base, payroll.DeductionBaseBasic, payroll.DeductionBaseGross)
		}
	}
	effectiveFrom, _ := v.Date("effectiveFrom", payload.EffectiveFrom)
	if v.Reject(w, requestID) {
		return
	}

	if err := h.Service.Store().SaveSalaryStructure(r.Context(), employeeID, payload.SalaryStructure, effectiveFrom); err != nil {
		slog.Error("salary structure save failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "structure_save_failed", "failed to save salary structure", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "payroll.structure.save", "salary_structure", employeeID, requestID, shared.ClientIP(r), nil, payload.SalaryStructure); err != nil {
		slog.Warn("audit payroll.structure.save failed", "err", err)
	}
	api.Success(w, map[string]string{"employeeId": employeeID}, requestID)
}
