package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hrms/internal/domain/auth"
)

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthStoresUserContext(t *testing.T) {
	token, err := auth.GenerateToken("secret", auth.Claims{UserID: "u1", Role: auth.RoleHR}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	var got auth.UserContext
	var ok bool
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
	}))

	r := httptest.NewRequest("GET", "/employees", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if !ok || got.UserID != "u1" || got.Role != auth.RoleHR {
		t.Fatalf("unexpected user context: %+v ok=%v", got, ok)
	}
}

func TestAuthIgnoresBadToken(t *testing.T) {
	var ok bool
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUser(r.Context())
	}))

	r := httptest.NewRequest("GET", "/employees", nil)
	r.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if ok {
		t.Fatal("expected no user context for invalid token")
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		token      bool
		role       string
		permission string
		wantStatus int
	}{
		{"unauthenticated", false, "", auth.PermEmployeesRead, http.StatusUnauthorized},
		{"forbidden", true, auth.RoleEmployee, auth.PermPayrollRun, http.StatusForbidden},
		{"allowed", true, auth.RoleHR, auth.PermPayrollRun, http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chain := Auth("secret")(RequirePermission(tc.permission)(protectedHandler(t)))
			r := httptest.NewRequest("POST", "/payroll/periods/p1/run", nil)
			if tc.token {
				token, err := auth.GenerateToken("secret", auth.Claims{UserID: "u1", Role: tc.role}, time.Hour)
				if err != nil {
					t.Fatalf("token: %v", err)
				}
				r.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			chain.ServeHTTP(rec, r)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(protectedHandler(t))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, r)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// A different client has its own bucket.
	rec = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	handler.ServeHTTP(rec, r)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for fresh client, got %d", rec.Code)
	}
}
