package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/core"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Users  *auth.Store
	Core   *core.Store
	Audit  *audit.Service
	Secret string
	TTL    time.Duration
}

func NewHandler(users *auth.Store, coreStore *core.Store, auditSvc *audit.Service, secret string, ttl time.Duration) *Handler {
	return &Handler{Users: users, Core: coreStore, Audit: auditSvc, Secret: secret, TTL: ttl}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	user, err := h.Users.FindActiveUserByEmail(r.Context(), payload.Email)
	if err != nil {
		if !errors.Is(err, auth.ErrUserNotFound) {
			slog.Warn("login lookup failed", "err", err)
		}
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, Role: user.Role}, h.TTL)
	if err != nil {
		slog.Error("token generation failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to issue token", requestID)
		return
	}

	if err := h.Users.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("last login update failed", "err", err)
	}
	if err := h.Audit.Record(r.Context(), user.ID, "auth.login", "user", user.ID, requestID, shared.ClientIP(r), nil, nil); err != nil {
		slog.Warn("audit auth.login failed", "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	}, requestID)
}
