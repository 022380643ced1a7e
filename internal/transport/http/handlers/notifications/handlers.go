package notificationshandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := h.Service.ListForUser(r.Context(), user.UserID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		slog.Error("notification list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to list notifications", requestID)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	if err := h.Service.MarkRead(r.Context(), user.UserID, chi.URLParam(r, "notificationID")); err != nil {
		slog.Error("notification mark read failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_update_failed", "failed to mark notification read", requestID)
		return
	}
	api.Success(w, map[string]bool{"read": true}, requestID)
}
