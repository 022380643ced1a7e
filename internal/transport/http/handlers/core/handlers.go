package corehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Store *core.Store
	Audit *audit.Service
}

func NewHandler(store *core.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/me", h.handleMe)
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleListEmployees)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleGetEmployee)
			r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Put("/", h.handleUpdateEmployee)
		})
	})
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead)).Get("/", h.handleListDepartments)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite)).Post("/", h.handleCreateDepartment)
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	response := map[string]any{
		"user": map[string]string{
			"id":   user.UserID,
			"role": user.Role,
		},
	}
	if employee, err := h.Store.FindEmployeeByUserID(r.Context(), user.UserID); err == nil {
		response["employee"] = employee
	}
	api.Success(w, response, requestID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	employees, err := h.Store.ListEmployees(r.Context(), r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		slog.Error("employee list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employee, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		if errors.Is(err, core.ErrEmployeeNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
			return
		}
		slog.Error("employee lookup failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, employee, requestID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload core.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeNumber", payload.EmployeeNumber)
	v.Required("firstName", payload.FirstName)
	v.Required("lastName", payload.LastName)
	v.Required("email", payload.Email)
	if payload.EmploymentType != "" {
		v.Enum("employmentType", payload.EmploymentType, core.EmploymentFullTime, core.EmploymentPartTime, core.EmploymentContract)
	}
	if v.Reject(w, requestID) {
		return
	}

	if payload.Status == "" {
		payload.Status = core.StatusActive
	}
	if payload.EmploymentType == "" {
		payload.EmploymentType = core.EmploymentFullTime
	}

	id, err := h.Store.CreateEmployee(r.Context(), payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.Fail(w, http.StatusConflict, "employee_exists", "employee number or email already exists", requestID)
			return
		}
		slog.Error("employee create failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "core.employee.create", "employee", id, requestID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit core.employee.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	employeeID := chi.URLParam(r, "employeeID")

	existing, err := h.Store.GetEmployee(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}

	var payload core.Employee
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	payload.ID = employeeID

	if err := h.Store.UpdateEmployee(r.Context(), payload); err != nil {
		slog.Error("employee update failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "core.employee.update", "employee", employeeID, requestID, shared.ClientIP(r), existing, payload); err != nil {
		slog.Warn("audit core.employee.update failed", "err", err)
	}
	api.Success(w, map[string]string{"id": employeeID}, requestID)
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		slog.Error("department list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", requestID)
		return
	}
	api.Success(w, departments, requestID)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload core.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name)
	if v.Reject(w, requestID) {
		return
	}

	id, err := h.Store.CreateDepartment(r.Context(), payload.Name, payload.ManagerID)
	if err != nil {
		slog.Error("department create failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "department_create_failed", "failed to create department", requestID)
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "core.department.create", "department", id, requestID, shared.ClientIP(r), nil, payload); err != nil {
		slog.Warn("audit core.department.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}
