package reportshandler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/reports"
	"hrms/internal/platform/jobs"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *reports.Service
	Jobs    *jobs.Service
}

func NewHandler(service *reports.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/dashboard", h.handleDashboard)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/headcount", h.handleHeadcount)
		r.With(middleware.RequirePermission(auth.PermReportsRead)).Get("/leave-utilisation", h.handleLeaveUtilisation)
	})
	r.Route("/jobs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAuditRead)).Get("/runs", h.handleJobRuns)
		r.With(middleware.RequirePermission(auth.PermAuditRead)).Post("/leave-accrual", h.handleRunAccrual)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	counts, err := h.Service.Dashboard(r.Context())
	if err != nil {
		slog.Error("dashboard report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build dashboard", requestID)
		return
	}
	api.Success(w, counts, requestID)
}

func (h *Handler) handleHeadcount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	rows, err := h.Service.Headcount(r.Context())
	if err != nil {
		slog.Error("headcount report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build headcount report", requestID)
		return
	}
	api.Success(w, rows, requestID)
}

func (h *Handler) handleLeaveUtilisation(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	year := time.Now().UTC().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_year", "year must be an integer", requestID)
			return
		}
		year = parsed
	}

	rows, err := h.Service.LeaveUtilisation(r.Context(), year)
	if err != nil {
		slog.Error("leave utilisation report failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build leave utilisation report", requestID)
		return
	}
	api.Success(w, rows, requestID)
}

func (h *Handler) handleJobRuns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	runs, err := h.Service.JobRuns(r.Context(), reports.JobRunFilter{
		JobType: r.URL.Query().Get("jobType"),
		Status:  r.URL.Query().Get("status"),
	}, page.Limit, page.Offset)
	if err != nil {
		slog.Error("job run list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "job_run_list_failed", "failed to list job runs", requestID)
		return
	}
	api.Success(w, runs, requestID)
}

// handleRunAccrual triggers the monthly leave accrual on demand instead of
// waiting for the scheduler tick.
func (h *Handler) handleRunAccrual(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	detail, err := h.Jobs.RunNow(r.Context(), jobs.JobLeaveAccrual, func(ctx context.Context) (any, error) {
		return h.Jobs.Leave.ApplyAccruals(ctx, time.Now().UTC())
	})
	if err != nil {
		slog.Error("leave accrual run failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "accrual_failed", "failed to run leave accrual", requestID)
		return
	}
	api.Success(w, detail, requestID)
}
